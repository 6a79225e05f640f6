package model

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostDraft     PostStatus = "DRAFT"
	PostPublished PostStatus = "PUBLISHED"
	PostArchived  PostStatus = "ARCHIVED"
	PostDeleted   PostStatus = "DELETED"
)

func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished || s == PostArchived || s == PostDeleted
}

type Post struct {
	ID           int64      `json:"id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	Status       PostStatus `json:"status"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	IsFeatured   bool       `json:"is_featured"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
}
