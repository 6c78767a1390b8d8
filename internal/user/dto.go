package user

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email,omitempty"`
	Name            string    `json:"name,omitempty"`
	Role            string    `json:"role"`
	GoogleConnected bool      `json:"google_connected"`
	CreatedAt       time.Time `json:"created_at"`
}

type ConnectGoogleDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		GoogleConnected: u.GoogleConnected(),
		CreatedAt:       u.CreatedAt,
	}
}
