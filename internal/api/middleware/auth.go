package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/api/handler"
	"github.com/attireme/auth-service/internal/core/service"
)

const invalidToken = "Invalid json web token"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	Validate(token string) (*service.AccessClaims, error)
}

// Auth validates the bearer access token and injects its claims into context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, invalidToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, invalidToken)
			}

			claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, invalidToken)
			}

			c.Set(handler.CtxSubject, claims.Subject)
			c.Set(handler.CtxEmail, claims.Email)
			c.Set(handler.CtxRole, claims.Role)

			return next(c)
		}
	}
}
