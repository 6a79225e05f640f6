package dto

import "github.com/BloggingApp/social-service/internal/model"

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=100"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
