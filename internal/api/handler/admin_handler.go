package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// DeleteUser removes an account with its profile and refresh tokens.
//
// @Summary      Delete account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  messageResponse
// @Failure      401    {object}  ProblemDetails
// @Failure      403    {object}  ProblemDetails
// @Failure      404    {object}  ProblemDetails
// @Router       /admin/users/{email} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	outcome, err := h.accounts.DeleteIdentity(c.Request().Context(), emailParam(c))
	if err != nil {
		recordError("delete_identity")
		return err
	}
	record("delete_identity", outcome)

	switch outcome {
	case domain.DeletionSuccess:
		return success(c, "Account deleted.")
	case domain.DeletionEmailNotFound:
		return problem(c, http.StatusNotFound, detailNoSuchUser)
	case domain.DeletionUserIsAdmin:
		return problem(c, http.StatusForbidden, "Admin users can't be deleted.")
	default:
		return unexpected(c)
	}
}
