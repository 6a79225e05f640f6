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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserService(logger *zap.Logger, repo *repository.Repository) User {
	return &userService{
		logger: logger,
		repo:   repo,
	}
}

// FindAll serves the full user listing through the cache. Every user write
// path evicts the listing key, so a hit is never stale.
func (s *userService) FindAll(ctx context.Context) ([]*model.User, error) {
	cachedUsers, err := redisrepo.GetMany[model.User](s.repo.Redis.Default, ctx, redisrepo.UsersKey())
	if err == nil {
		return cachedUsers, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get users from redis: %s", err.Error())
		return nil, ErrInternal
	}

	users, err := s.repo.Postgres.User.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find users from postgres: %s", err.Error())
		return nil, ErrInternal
	}

	if len(users) > 0 {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UsersKey(), users, time.Hour); err != nil {
			s.logger.Sugar().Errorf("failed to set users in redis: %s", err.Error())
			return nil, ErrInternal
		}
	}

	return users, nil
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileRequest) (*model.User, error) {
	updates := make(map[string]interface{})
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}

	if err := s.repo.Postgres.User.Update(ctx, userID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	s.evictUsersCache(ctx)

	return s.FindByID(ctx, userID)
}

func (s *userService) UpdateRole(ctx context.Context, caller access.Claims, targetID uuid.UUID, role model.Role) error {
	if !access.RoleAllowed(caller.Role, access.UserManage) {
		return ErrForbidden
	}
	if !role.Valid() {
		return ErrInvalidRole
	}

	if _, err := s.FindByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.repo.Postgres.User.Update(ctx, targetID, map[string]interface{}{"role": role}); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) role: %s", targetID.String(), err.Error())
		return ErrInternal
	}

	s.evictUsersCache(ctx)

	return nil
}

func (s *userService) SetActive(ctx context.Context, caller access.Claims, targetID uuid.UUID, active bool) error {
	if !access.RoleAllowed(caller.Role, access.UserManage) {
		return ErrForbidden
	}

	if _, err := s.FindByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.repo.Postgres.User.Update(ctx, targetID, map[string]interface{}{"is_active": active}); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) active flag: %s", targetID.String(), err.Error())
		return ErrInternal
	}

	s.evictUsersCache(ctx)

	return nil
}

func (s *userService) Delete(ctx context.Context, caller access.Claims, targetID uuid.UUID) error {
	if !access.RoleAllowed(caller.Role, access.UserManage) {
		return ErrForbidden
	}

	if _, err := s.FindByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.repo.Postgres.User.Delete(ctx, targetID); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s): %s", targetID.String(), err.Error())
		return ErrInternal
	}

	s.evictUsersCache(ctx)

	return nil
}

// ClearCache wipes the whole cache, not just the user listing. Every
// read-through key re-runs its producer on the next request.
func (s *userService) ClearCache(ctx context.Context, caller access.Claims) error {
	if !access.RoleAllowed(caller.Role, access.UserManage) {
		return ErrForbidden
	}

	if err := s.repo.Redis.Default.EvictAll(ctx); err != nil {
		s.logger.Sugar().Errorf("failed to clear cache: %s", err.Error())
		return ErrInternal
	}

	return nil
}

func (s *userService) evictUsersCache(ctx context.Context) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UsersKey()).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to evict users cache: %s", err.Error())
	}
}
