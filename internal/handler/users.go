package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) usersGetAll(c *gin.Context) {
	users, err := h.services.User.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) usersGetMe(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	user, err := h.services.User.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), claims.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdateRole(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	var input dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.User.UpdateRole(c.Request.Context(), *claims, userID, input.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersSetActive(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	var input dto.SetActiveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.User.SetActive(c.Request.Context(), *claims, userID, *input.IsActive); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersClearCache(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	if err := h.services.User.ClearCache(c.Request.Context(), *claims); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersDelete(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), *claims, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
