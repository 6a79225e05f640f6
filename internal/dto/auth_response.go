package dto

import (
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
)

type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        model.Role `json:"role"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

func NewAuthResponse(token string, user *model.User) AuthResponse {
	return AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
	}
}
