package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized   = errors.New("user is not authorized")
	errInvalidPostID   = errors.New("invalid post ID")
	errInvalidUserID   = errors.New("invalid user ID")
	errInvalidID       = errors.New("invalid ID")
	errLimitOffsetInts = errors.New("limit and offset must be int")
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrUserDeactivated):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPostStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), dto.NewBasicResponse(false, err.Error()))
}
