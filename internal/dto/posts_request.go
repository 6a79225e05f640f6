package dto

import "github.com/BloggingApp/social-service/internal/model"

type CreatePostRequest struct {
	Title      string           `json:"title" binding:"required,min=5,max=200"`
	Content    string           `json:"content" binding:"required"`
	Excerpt    string           `json:"excerpt"`
	Status     model.PostStatus `json:"status"`
	IsFeatured bool             `json:"is_featured"`
}

type UpdatePostRequest struct {
	Title      *string           `json:"title" binding:"omitempty,min=5,max=200"`
	Content    *string           `json:"content"`
	Excerpt    *string           `json:"excerpt"`
	Status     *model.PostStatus `json:"status"`
	IsFeatured *bool             `json:"is_featured"`
}

type GetPostsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
