package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	claims, ok := h.decodeBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set(claimsCtxKey, claims)

	c.Next()
}

// decodeBearer verifies the Authorization header and converts the token's
// claims into access.Claims. Verification failures are reported uniformly to
// the client; the specific cause (expired, malformed, bad signature) is only
// logged here.
func (h *Handler) decodeBearer(c *gin.Context) (access.Claims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return access.Claims{}, false
	}

	accessToken := strings.Split(header, " ")[1]
	if accessToken == "" {
		return access.Claims{}, false
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		h.logger.Sugar().Infof("rejected access token on %s: %s", c.FullPath(), err.Error())
		return access.Claims{}, false
	}

	return claimsFromToken(claims)
}

func claimsFromToken(claims jwt.MapClaims) (access.Claims, bool) {
	idString, ok := claims["id"].(string)
	if !ok {
		return access.Claims{}, false
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return access.Claims{}, false
	}

	roleString, ok := claims["role"].(string)
	if !ok {
		return access.Claims{}, false
	}
	role := model.Role(roleString)
	if !role.Valid() {
		return access.Claims{}, false
	}

	return access.Claims{UserID: id, Role: role}, true
}
