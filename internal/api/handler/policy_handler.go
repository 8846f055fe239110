package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// PolicyHandler answers whether a token satisfies a role policy. Other
// services call these routes to gate their own resources.
type PolicyHandler struct {
	policies ports.PolicyChecker
}

func NewPolicyHandler(policies ports.PolicyChecker) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

// UserPolicy checks the User policy.
//
// @Summary      User policy
// @Tags         policy
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Access token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  ProblemDetails
// @Router       /user-policy [post]
func (h *PolicyHandler) UserPolicy(c echo.Context) error {
	return h.check(c, domain.RoleUser, "Does not belong to user policy.")
}

// CreatorPolicy checks the Creator policy.
//
// @Summary      Creator policy
// @Tags         policy
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Access token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  ProblemDetails
// @Router       /creator-policy [post]
func (h *PolicyHandler) CreatorPolicy(c echo.Context) error {
	return h.check(c, domain.RoleCreator, "Does not belong to creator policy.")
}

// AdminPolicy checks the Admin policy.
//
// @Summary      Admin policy
// @Tags         policy
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Access token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  ProblemDetails
// @Router       /admin-policy [post]
func (h *PolicyHandler) AdminPolicy(c echo.Context) error {
	return h.check(c, domain.RoleAdmin, "Does not belong to admin policy.")
}

func (h *PolicyHandler) check(c echo.Context, role domain.Role, failure string) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome := h.policies.Check(c.Request().Context(), req.Token, role)
	record("policy_"+string(role), outcome)

	switch outcome {
	case domain.PolicySuccess:
		return success(c, "Token satisfies the "+string(role)+" policy.")
	case domain.PolicyFailure:
		return problem(c, http.StatusUnauthorized, failure)
	default:
		return unexpected(c)
	}
}
