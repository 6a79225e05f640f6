package handler

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	if claims, ok := h.decodeBearer(c); ok {
		c.Set(claimsCtxKey, claims)
	}

	c.Next()
}
