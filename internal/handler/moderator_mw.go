package handler

import (
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) moderatorMiddleware(c *gin.Context) {
	claims, ok := h.decodeBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	if !claims.Role.IsStaff() {
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, "no access"))
		c.Abort()
		return
	}

	c.Set(claimsCtxKey, claims)

	c.Next()
}
