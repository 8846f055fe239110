package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/api/metrics"
)

// Problem detail messages shared by several routes.
const (
	detailUnexpected        = "Unexpected error."
	detailEmailNotFound     = "Email not found."
	detailNoSuchUser        = "Email not found. There is no such user"
	detailAdminHasNoProfile = "Admin users don't have user details."
	detailInvalidJWT        = "Invalid json web token"
	detailEmailCantBeSent   = "Email cant be sent possibly due to invalid email."
	detailWrongUserType     = "A user can't be updated with creator info and vice versa"
	detailInvalidPayload    = "invalid payload"
)

func problem(c echo.Context, status int, detail string) error {
	return c.JSON(status, ProblemDetails{Status: status, Detail: detail})
}

func unexpected(c echo.Context) error {
	return problem(c, http.StatusInternalServerError, detailUnexpected)
}

func success(c echo.Context, detail string) error {
	return c.JSON(http.StatusOK, messageResponse{Detail: detail})
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, detailInvalidPayload)
	}
	return c.Validate(req)
}

// record counts the outcome of one workflow call.
func record[T ~string](operation string, outcome T) {
	metrics.WorkflowOutcomesTotal.WithLabelValues(operation, string(outcome)).Inc()
}

func recordError(operation string) {
	metrics.WorkflowOutcomesTotal.WithLabelValues(operation, "error").Inc()
}
