package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/api/metrics"
	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// AccountHandler serves the credential lifecycle routes.
type AccountHandler struct {
	accounts  ports.AccountService
	refresher ports.TokenRefresher
}

func NewAccountHandler(accounts ports.AccountService, refresher ports.TokenRefresher) *AccountHandler {
	return &AccountHandler{accounts: accounts, refresher: refresher}
}

// Register creates a new account and sends the confirmation email.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ProblemDetails
// @Failure      409   {object}  ProblemDetails
// @Failure      500   {object}  ProblemDetails
// @Router       /register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		UserType: parseUserType(req.UserType),
	})
	if err != nil {
		recordError("register")
		return err
	}
	record("register", outcome)

	switch outcome {
	case domain.RegistrationSuccess:
		return success(c, "Registration succeeded. Check your inbox to confirm the email.")
	case domain.RegistrationEmailAlreadyExists:
		return problem(c, http.StatusConflict, "Email already exists.")
	case domain.RegistrationSystemError:
		return problem(c, http.StatusInternalServerError, "User generation failed possibly due to invalid password.")
	case domain.RegistrationEmailCantBeSent:
		metrics.EmailSendFailuresTotal.WithLabelValues("confirmation").Inc()
		return problem(c, http.StatusBadRequest, detailEmailCantBeSent)
	default:
		return unexpected(c)
	}
}

// parseUserType accepts the registrable kinds case-insensitively. Anything
// else is passed through and rejected by the workflow.
func parseUserType(s string) domain.UserType {
	role, ok := domain.ParseRole(s)
	if !ok || role == domain.RoleAdmin {
		return domain.UserType(s)
	}
	return domain.UserType(role)
}

// Authenticate exchanges credentials for a token pair.
//
// @Summary      Authenticate
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  ProblemDetails
// @Failure      404   {object}  ProblemDetails
// @Router       /authenticate [post]
func (h *AccountHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		recordError("authenticate")
		return err
	}
	record("authenticate", res.Outcome)

	switch res.Outcome {
	case domain.AuthenticationSuccess:
		return c.JSON(http.StatusOK, toTokenResponse(res.Tokens))
	case domain.AuthenticationEmailNotFound:
		return problem(c, http.StatusNotFound, "Email not found")
	case domain.AuthenticationWrongPassword:
		return problem(c, http.StatusUnauthorized, "Wrong password")
	default:
		return unexpected(c)
	}
}

// ConfirmEmail redeems the confirmation token sent at registration.
//
// @Summary      Confirm email
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      confirmEmailRequest  true  "Email and confirmation token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  ProblemDetails
// @Failure      404   {object}  ProblemDetails
// @Router       /confirm-email [post]
func (h *AccountHandler) ConfirmEmail(c echo.Context) error {
	var req confirmEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.ConfirmEmail(c.Request().Context(), req.Email, req.Token)
	if err != nil {
		recordError("confirm_email")
		return err
	}
	record("confirm_email", outcome)

	switch outcome {
	case domain.ConfirmEmailSuccess:
		return success(c, "Email confirmed.")
	case domain.ConfirmEmailEmailNotFound:
		return problem(c, http.StatusNotFound, detailEmailNotFound)
	case domain.ConfirmEmailInvalidToken:
		return problem(c, http.StatusUnauthorized, "Invalid reset token")
	default:
		return unexpected(c)
	}
}

// RequestPasswordReset emails a password reset code.
//
// @Summary      Request password reset
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ProblemDetails
// @Failure      404   {object}  ProblemDetails
// @Router       /request-password-reset [post]
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		recordError("request_password_reset")
		return err
	}
	record("request_password_reset", outcome)

	switch outcome {
	case domain.PasswordResetRequestSuccess:
		return success(c, "Password reset email sent.")
	case domain.PasswordResetRequestEmailNotFound:
		return problem(c, http.StatusNotFound, detailEmailNotFound)
	case domain.PasswordResetRequestEmailCantBeSent:
		metrics.EmailSendFailuresTotal.WithLabelValues("password_reset").Inc()
		return problem(c, http.StatusBadRequest, detailEmailCantBeSent)
	default:
		return unexpected(c)
	}
}

// ConfirmPasswordReset sets a new password using the emailed reset code.
//
// @Summary      Confirm password reset
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      confirmPasswordResetRequest  true  "Email, reset code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ProblemDetails
// @Failure      404   {object}  ProblemDetails
// @Router       /confirm-password-reset [post]
func (h *AccountHandler) ConfirmPasswordReset(c echo.Context) error {
	var req confirmPasswordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.accounts.ConfirmPasswordReset(c.Request().Context(), req.Email, req.Token, req.Password)
	if err != nil {
		recordError("confirm_password_reset")
		return err
	}
	record("confirm_password_reset", outcome)

	switch outcome {
	case domain.PasswordResetSuccess:
		return success(c, "Password has been reset.")
	case domain.PasswordResetEmailNotFound:
		return problem(c, http.StatusNotFound, detailEmailNotFound)
	case domain.PasswordResetUnsupportedPasswordFormat:
		return problem(c, http.StatusBadRequest, "Password could not be reset due to invalid password format or invalid token.")
	default:
		return unexpected(c)
	}
}

// RefreshToken rotates a refresh token into a new token pair.
//
// @Summary      Refresh tokens
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  ProblemDetails
// @Failure      404   {object}  ProblemDetails
// @Router       /refresh-token [post]
func (h *AccountHandler) RefreshToken(c echo.Context) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.refresher.Refresh(c.Request().Context(), req.Token)
	if err != nil {
		recordError("refresh_token")
		return err
	}
	record("refresh_token", res.Outcome)

	switch res.Outcome {
	case domain.RefreshSuccess:
		return c.JSON(http.StatusOK, toTokenResponse(res.Tokens))
	case domain.RefreshEmailNotFound:
		return problem(c, http.StatusNotFound, "Email not found. This token belongs to no user.")
	case domain.RefreshExpired:
		return problem(c, http.StatusUnauthorized, "Token is expired.")
	default:
		return unexpected(c)
	}
}
