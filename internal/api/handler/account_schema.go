package handler

import "github.com/attireme/auth-service/internal/core/domain"

// ProblemDetails is the body of every non-success response.
type ProblemDetails struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type registerRequest struct {
	UserName string `json:"userName" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"required"`
}

type authenticateRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type confirmEmailRequest struct {
	Email string `json:"email" validate:"required"`
	Token string `json:"token" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

type confirmPasswordResetRequest struct {
	Email    string `json:"email" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type tokenResponse struct {
	JWToken      string `json:"jwToken"`
	RefreshToken string `json:"refreshToken"`
}

func toTokenResponse(p *domain.TokenPair) tokenResponse {
	return tokenResponse{JWToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type messageResponse struct {
	Detail string `json:"detail"`
}
