package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// ProfileHandler serves the role-specific profile routes.
type ProfileHandler struct {
	accounts ports.AccountService
}

func NewProfileHandler(accounts ports.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// GetProfile returns the profile of the identity registered with email.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  profileResponse
// @Failure      404    {object}  ProblemDetails
// @Router       /user/{email} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	res, err := h.accounts.GetProfile(c.Request().Context(), emailParam(c))
	if err != nil {
		recordError("get_profile")
		return err
	}
	record("get_profile", res.Outcome)

	switch res.Outcome {
	case domain.ProfileSuccess:
		return c.JSON(http.StatusOK, toProfileResponse(res.Profile))
	case domain.ProfileEmailNotFound:
		return problem(c, http.StatusNotFound, detailNoSuchUser)
	case domain.ProfileUserIsAdmin:
		return problem(c, http.StatusNotFound, detailAdminHasNoProfile)
	case domain.ProfileUserNotInitialized:
		return problem(c, http.StatusNotFound, "User is not initialized due to unknown reason.")
	case domain.ProfileCreatorNotInitialized:
		return problem(c, http.StatusNotFound, "Creator is not initialized due to unknown reason.")
	default:
		return unexpected(c)
	}
}

// UpdateUser replaces the User profile. Requires the account's own bearer token.
//
// @Summary      Update user profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string             true  "Account email"
// @Param        body   body      updateUserRequest  true  "Profile fields"
// @Success      200    {object}  messageResponse
// @Failure      401    {object}  ProblemDetails
// @Failure      403    {object}  ProblemDetails
// @Failure      404    {object}  ProblemDetails
// @Router       /user/{email} [put]
func (h *ProfileHandler) UpdateUser(c echo.Context) error {
	caller, err := ctxCallerEmail(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.UpdateUserProfile(c.Request().Context(), caller, emailParam(c), domain.UserProfile{
		FullName:    req.FullName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}, domain.RoleUser)
	if err != nil {
		recordError("update_user_profile")
		return err
	}
	record("update_user_profile", outcome)
	return renderProfileUpdate(c, outcome)
}

// UpdateCreator replaces the Creator profile. Requires the account's own bearer token.
//
// @Summary      Update creator profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string                true  "Account email"
// @Param        body   body      updateCreatorRequest  true  "Profile fields"
// @Success      200    {object}  messageResponse
// @Failure      401    {object}  ProblemDetails
// @Failure      403    {object}  ProblemDetails
// @Failure      404    {object}  ProblemDetails
// @Router       /creator/{email} [put]
func (h *ProfileHandler) UpdateCreator(c echo.Context) error {
	caller, err := ctxCallerEmail(c)
	if err != nil {
		return err
	}
	var req updateCreatorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.UpdateCreatorProfile(c.Request().Context(), caller, emailParam(c), domain.CreatorProfile{
		BusinessName: req.BusinessName,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
	}, domain.RoleCreator)
	if err != nil {
		recordError("update_creator_profile")
		return err
	}
	record("update_creator_profile", outcome)
	return renderProfileUpdate(c, outcome)
}

func renderProfileUpdate(c echo.Context, outcome domain.ProfileUpdateOutcome) error {
	switch outcome {
	case domain.ProfileUpdateSuccess:
		return success(c, "Profile updated.")
	case domain.ProfileUpdateEmailNotFound:
		return problem(c, http.StatusNotFound, detailNoSuchUser)
	case domain.ProfileUpdateUserIsAdmin:
		return problem(c, http.StatusNotFound, detailAdminHasNoProfile)
	case domain.ProfileUpdateWrongUserType:
		return problem(c, http.StatusForbidden, detailWrongUserType)
	case domain.ProfileUpdateInvalidToken:
		return problem(c, http.StatusUnauthorized, detailInvalidJWT)
	default:
		return unexpected(c)
	}
}
