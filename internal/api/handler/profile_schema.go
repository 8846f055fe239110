package handler

import "github.com/attireme/auth-service/internal/core/domain"

type updateUserRequest struct {
	FullName    string `json:"fullName" validate:"max=256"`
	Address     string `json:"address" validate:"max=512"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
}

type updateCreatorRequest struct {
	BusinessName string `json:"businessName" validate:"max=256"`
	Address      string `json:"address" validate:"max=512"`
	PhoneNumber  string `json:"phoneNumber" validate:"max=32"`
}

// profileResponse carries either the user or the creator fields depending on
// the role of the identity.
type profileResponse struct {
	Role         string `json:"role"`
	FullName     string `json:"fullName,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phoneNumber"`
}

func toProfileResponse(p *domain.Profile) profileResponse {
	switch {
	case p.User != nil:
		return profileResponse{
			Role:        domain.RoleUser.String(),
			FullName:    p.User.FullName,
			Address:     p.User.Address,
			PhoneNumber: p.User.PhoneNumber,
		}
	case p.Creator != nil:
		return profileResponse{
			Role:         domain.RoleCreator.String(),
			BusinessName: p.Creator.BusinessName,
			Address:      p.Creator.Address,
			PhoneNumber:  p.Creator.PhoneNumber,
		}
	default:
		return profileResponse{}
	}
}
