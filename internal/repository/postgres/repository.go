package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT || *limit <= 0 {
		*limit = MAX_LIMIT
	}
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindBySlug(ctx context.Context, slug string) (*model.FullPost, error)
	FindByStatus(ctx context.Context, status model.PostStatus, limit int, offset int) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, statuses []model.PostStatus, limit int, offset int) ([]*model.Post, error)
	FindFeatured(ctx context.Context, limit int) ([]*model.FullPost, error)
	FindPopular(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	FindTrending(ctx context.Context, since time.Time, limit int) ([]*model.FullPost, error)
	FindRelated(ctx context.Context, authorID uuid.UUID, excludePostID int64, limit int) ([]*model.FullPost, error)
	SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	IncrViews(ctx context.Context, id int64) error
	UpdateLikes(ctx context.Context, id int64, delta int64) error
	SyncCommentCount(ctx context.Context, postID int64) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error)
	FindByStatus(ctx context.Context, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error)
	FindRecent(ctx context.Context, since time.Time, limit int) ([]*model.FullComment, error)
	FindPopular(ctx context.Context, limit int) ([]*model.FullComment, error)
	SearchByContent(ctx context.Context, keyword string, limit int, offset int) ([]*model.FullComment, error)
	DeleteOldRejected(ctx context.Context, before time.Time) (int64, error)
	UpdateContent(ctx context.Context, id int64, content string, editedAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error
	UpdateStatusBulk(ctx context.Context, ids []int64, status model.CommentStatus) error
	FindPostIDs(ctx context.Context, ids []int64) ([]int64, error)
	UpdateLikes(ctx context.Context, id int64, delta int64) error
}

type PostgresRepository struct {
	User
	Post
	Comment
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		User:    newUserRepo(db),
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db),
	}
}
