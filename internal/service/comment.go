package service

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
	}
}

// Create inserts a new comment. Every comment starts PENDING; there is no
// auto-approval path, not even for moderators.
func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, in dto.CreateCommentRequest) (*model.Comment, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, in.PostID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", in.PostID, err.Error())
		return nil, ErrInternal
	}
	if post.Post.Status == model.PostDeleted {
		return nil, ErrPostNotFound
	}

	comment := model.Comment{
		PostID:   in.PostID,
		AuthorID: authorID,
		Content:  in.Content,
		Status:   model.CommentPending,
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.syncCommentCount(ctx, in.PostID)

	return createdComment, nil
}

func (s *commentService) Update(ctx context.Context, caller access.Claims, commentID int64, content string) (*model.Comment, error) {
	comment, err := s.findExisting(ctx, commentID)
	if err != nil {
		return nil, err
	}

	// Editing is owner-only; moderators moderate, they do not rewrite.
	if !access.Can(caller, access.CommentEdit, comment.AuthorID) {
		return nil, ErrForbidden
	}

	editedAt := time.Now()
	if err := s.repo.Postgres.Comment.UpdateContent(ctx, commentID, content, editedAt); err != nil {
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}

	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &editedAt

	return comment, nil
}

func (s *commentService) Approve(ctx context.Context, caller access.Claims, commentID int64) error {
	return s.moderate(ctx, caller, commentID, model.CommentApproved)
}

func (s *commentService) Reject(ctx context.Context, caller access.Claims, commentID int64) error {
	return s.moderate(ctx, caller, commentID, model.CommentRejected)
}

func (s *commentService) moderate(ctx context.Context, caller access.Claims, commentID int64, status model.CommentStatus) error {
	if !access.RoleAllowed(caller.Role, access.CommentModerate) {
		return ErrForbidden
	}

	comment, err := s.findExisting(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Comment.UpdateStatus(ctx, commentID, status); err != nil {
		s.logger.Sugar().Errorf("failed to set comment(%d) status to %s: %s", commentID, status, err.Error())
		return ErrInternal
	}

	s.syncCommentCount(ctx, comment.PostID)

	return nil
}

func (s *commentService) BulkApprove(ctx context.Context, caller access.Claims, commentIDs []int64) error {
	return s.moderateBulk(ctx, caller, commentIDs, model.CommentApproved)
}

func (s *commentService) BulkReject(ctx context.Context, caller access.Claims, commentIDs []int64) error {
	return s.moderateBulk(ctx, caller, commentIDs, model.CommentRejected)
}

// moderateBulk applies one status to a batch, then recomputes the counter
// once per distinct affected post rather than once per comment.
func (s *commentService) moderateBulk(ctx context.Context, caller access.Claims, commentIDs []int64, status model.CommentStatus) error {
	if !access.RoleAllowed(caller.Role, access.CommentModerate) {
		return ErrForbidden
	}
	if len(commentIDs) == 0 {
		return nil
	}

	if err := s.repo.Postgres.Comment.UpdateStatusBulk(ctx, commentIDs, status); err != nil {
		s.logger.Sugar().Errorf("failed to bulk set %d comments to %s: %s", len(commentIDs), status, err.Error())
		return ErrInternal
	}

	postIDs, err := s.repo.Postgres.Comment.FindPostIDs(ctx, commentIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts for %d comments: %s", len(commentIDs), err.Error())
		return ErrInternal
	}

	for _, postID := range postIDs {
		s.syncCommentCount(ctx, postID)
	}

	return nil
}

func (s *commentService) Delete(ctx context.Context, caller access.Claims, commentID int64) error {
	comment, err := s.findExisting(ctx, commentID)
	if err != nil {
		return err
	}

	if !access.Can(caller, access.CommentDelete, comment.AuthorID) {
		return ErrForbidden
	}

	if err := s.repo.Postgres.Comment.UpdateStatus(ctx, commentID, model.CommentDeleted); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	s.syncCommentCount(ctx, comment.PostID)

	return nil
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error) {
	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID, model.CommentApproved, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

func (s *commentService) FindPending(ctx context.Context, caller access.Claims, limit int, offset int) ([]*model.FullComment, error) {
	if !access.RoleAllowed(caller.Role, access.CommentModerate) {
		return nil, ErrForbidden
	}

	comments, err := s.repo.Postgres.Comment.FindByStatus(ctx, model.CommentPending, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find pending comments: %s", err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

func (s *commentService) FindRecent(ctx context.Context, days int, limit int) ([]*model.FullComment, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	comments, err := s.repo.Postgres.Comment.FindRecent(ctx, since, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find recent comments: %s", err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

func (s *commentService) FindPopular(ctx context.Context, limit int) ([]*model.FullComment, error) {
	comments, err := s.repo.Postgres.Comment.FindPopular(ctx, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find popular comments: %s", err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

// Search matches approved comments only; pending and rejected content never
// leaks through search.
func (s *commentService) Search(ctx context.Context, keyword string, limit int, offset int) ([]*model.FullComment, error) {
	comments, err := s.repo.Postgres.Comment.SearchByContent(ctx, keyword, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search comments: %s", err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

// CleanupRejected hard-deletes rejected comments older than the given number
// of days and reports how many rows went away.
func (s *commentService) CleanupRejected(ctx context.Context, caller access.Claims, olderThanDays int) (int64, error) {
	if !access.RoleAllowed(caller.Role, access.CommentModerate) {
		return 0, ErrForbidden
	}
	if olderThanDays <= 0 {
		olderThanDays = 30
	}

	before := time.Now().AddDate(0, 0, -olderThanDays)
	deleted, err := s.repo.Postgres.Comment.DeleteOldRejected(ctx, before)
	if err != nil {
		s.logger.Sugar().Errorf("failed to cleanup rejected comments: %s", err.Error())
		return 0, ErrInternal
	}

	return deleted, nil
}

func (s *commentService) Like(ctx context.Context, commentID int64, unlike bool) error {
	if _, err := s.findExisting(ctx, commentID); err != nil {
		return err
	}

	var delta int64 = 1
	if unlike {
		delta = -1
	}

	if err := s.repo.Postgres.Comment.UpdateLikes(ctx, commentID, delta); err != nil {
		s.logger.Sugar().Errorf("failed to update likes for comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *commentService) findExisting(ctx context.Context, commentID int64) (*model.Comment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%d) from postgres: %s", commentID, err.Error())
		return nil, ErrInternal
	}
	if comment.Status == model.CommentDeleted {
		return nil, ErrCommentNotFound
	}

	return comment, nil
}

// syncCommentCount rederives the parent post's counter from the comments
// table and drops the cached post so readers never see the stale value.
func (s *commentService) syncCommentCount(ctx context.Context, postID int64) {
	if err := s.repo.Postgres.Post.SyncCommentCount(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to sync comment count for post(%d): %s", postID, err.Error())
		return
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to evict post(%d) from redis: %s", postID, err.Error())
	}
}
