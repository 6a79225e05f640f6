package service

import (
	"context"
	"os"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type authService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	secret    []byte
	accessTTL time.Duration
}

func newAuthService(logger *zap.Logger, repo *repository.Repository) Auth {
	ttl := viper.GetDuration("auth.access_token_ttl")
	if ttl == 0 {
		ttl = time.Hour
	}

	return &authService{
		logger:    logger,
		repo:      repo,
		secret:    []byte(os.Getenv("ACCESS_SECRET")),
		accessTTL: ttl,
	}
}

func (s *authService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	usernameExists, err := s.repo.Postgres.User.ExistsByUsername(ctx, in.Username)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check username(%s) existence: %s", in.Username, err.Error())
		return nil, ErrInternal
	}
	if usernameExists {
		return nil, ErrUsernameTaken
	}

	emailExists, err := s.repo.Postgres.User.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check email existence: %s", err.Error())
		return nil, ErrInternal
	}
	if emailExists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		FullName:     in.FullName,
		Bio:          in.Bio,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	createdUser, err := s.repo.Postgres.User.Create(ctx, user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s): %s", in.Username, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UsersKey()).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to evict users cache: %s", err.Error())
	}

	token, err := s.issueToken(createdUser)
	if err != nil {
		return nil, err
	}

	resp := dto.NewAuthResponse(token, createdUser)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.Postgres.User.FindByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		// An unknown user and a wrong password are the same failure to the
		// caller, so usernames cannot be enumerated through login.
		if err == pgx.ErrNoRows {
			return nil, ErrInvalidCredentials
		}

		s.logger.Sugar().Errorf("failed to find user by username or email: %s", err.Error())
		return nil, ErrInternal
	}

	if !utils.CheckPassword(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	resp := dto.NewAuthResponse(token, user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordRequest) error {
	user, err := s.repo.Postgres.User.FindByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", userID.String(), err.Error())
		return ErrInternal
	}

	if !utils.CheckPassword(in.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.UpdatePassword(ctx, userID, passwordHash); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) password: %s", userID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *authService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.Postgres.User.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check username(%s) existence: %s", username, err.Error())
		return false, ErrInternal
	}

	return !exists, nil
}

func (s *authService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.Postgres.User.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check email existence: %s", err.Error())
		return false, ErrInternal
	}

	return !exists, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	token, err := utils.GenerateJWT(s.secret, s.accessTTL, user.ID.String(), string(user.Role))
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign access token for user(%s): %s", user.ID.String(), err.Error())
		return "", ErrInternal
	}

	return token, nil
}
