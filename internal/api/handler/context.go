package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Context keys written by the Auth middleware.
const (
	CtxEmail   = "email"
	CtxRole    = "role"
	CtxSubject = "sub"
)

// ctxCallerEmail extracts the caller email injected by the Auth middleware.
// An empty value means the route was reached without a usable token.
func ctxCallerEmail(c echo.Context) (string, error) {
	email, _ := c.Get(CtxEmail).(string)
	if email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, detailInvalidJWT)
	}
	return email, nil
}

// emailParam returns the {email} path segment, percent-decoded.
func emailParam(c echo.Context) string {
	raw := c.Param("email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}
