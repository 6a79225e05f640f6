package service

import (
	"context"

	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Auth interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordRequest) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

type User interface {
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileRequest) (*model.User, error)
	UpdateRole(ctx context.Context, caller access.Claims, targetID uuid.UUID, role model.Role) error
	SetActive(ctx context.Context, caller access.Claims, targetID uuid.UUID, active bool) error
	Delete(ctx context.Context, caller access.Claims, targetID uuid.UUID) error
	ClearCache(ctx context.Context, caller access.Claims) error
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, in dto.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, caller access.Claims, postID int64, in dto.UpdatePostRequest) (*model.Post, error)
	Publish(ctx context.Context, caller access.Claims, postID int64) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindBySlug(ctx context.Context, slug string) (*model.FullPost, error)
	FindPublished(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.Post, error)
	FindFeatured(ctx context.Context, limit int) ([]*model.FullPost, error)
	FindPopular(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	FindTrending(ctx context.Context, limit int) ([]*model.FullPost, error)
	FindRelated(ctx context.Context, postID int64, limit int) ([]*model.FullPost, error)
	SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error)
	Like(ctx context.Context, postID int64, unlike bool) error
	Delete(ctx context.Context, caller access.Claims, postID int64) error
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, in dto.CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, caller access.Claims, commentID int64, content string) (*model.Comment, error)
	Approve(ctx context.Context, caller access.Claims, commentID int64) error
	Reject(ctx context.Context, caller access.Claims, commentID int64) error
	BulkApprove(ctx context.Context, caller access.Claims, commentIDs []int64) error
	BulkReject(ctx context.Context, caller access.Claims, commentIDs []int64) error
	Delete(ctx context.Context, caller access.Claims, commentID int64) error
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error)
	FindPending(ctx context.Context, caller access.Claims, limit int, offset int) ([]*model.FullComment, error)
	FindRecent(ctx context.Context, days int, limit int) ([]*model.FullComment, error)
	FindPopular(ctx context.Context, limit int) ([]*model.FullComment, error)
	Search(ctx context.Context, keyword string, limit int, offset int) ([]*model.FullComment, error)
	CleanupRejected(ctx context.Context, caller access.Claims, olderThanDays int) (int64, error)
	Like(ctx context.Context, commentID int64, unlike bool) error
}

type Service struct {
	Auth
	User
	Post
	Comment
}

func New(logger *zap.Logger, repo *repository.Repository) *Service {
	return &Service{
		Auth:    newAuthService(logger, repo),
		User:    newUserService(logger, repo),
		Post:    newPostService(logger, repo),
		Comment: newCommentService(logger, repo),
	}
}
