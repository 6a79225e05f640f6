package model

import (
	"time"

	"github.com/google/uuid"
)

type CommentStatus string

const (
	CommentPending  CommentStatus = "PENDING"
	CommentApproved CommentStatus = "APPROVED"
	CommentRejected CommentStatus = "REJECTED"
	CommentDeleted  CommentStatus = "DELETED"
)

type Comment struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"post_id"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Content   string        `json:"content"`
	Status    CommentStatus `json:"status"`
	LikeCount int64         `json:"like_count"`
	IsEdited  bool          `json:"is_edited"`
	EditedAt  *time.Time    `json:"edited_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type FullComment struct {
	Comment Comment    `json:"comment"`
	Author  UserAuthor `json:"author"`
}
