package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newMiddlewareTest(t *testing.T) (*Handler, *observer.ObservedLogs) {
	t.Setenv("ACCESS_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	return New(zap.New(core), nil), logs
}

func runAuthMiddleware(h *Handler, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}

	h.authMiddleware(c)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	h, logs := newMiddlewareTest(t)

	token, err := utils.GenerateJWT([]byte("test-secret"), time.Hour, "b2ac9646-7b33-4dbe-8c90-d3d2145645f3", "USER")
	require.NoError(t, err)

	w := runAuthMiddleware(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, logs.Len())
}

// The client always sees a uniform 401; the verification failure's specific
// cause must still reach the log.
func TestAuthMiddleware_LogsDistinctFailureCause(t *testing.T) {
	h, logs := newMiddlewareTest(t)

	expired, err := utils.GenerateJWT([]byte("test-secret"), -time.Minute, "some-id", "USER")
	require.NoError(t, err)
	forged, err := utils.GenerateJWT([]byte("another-secret"), time.Hour, "some-id", "USER")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		logged string
	}{
		{"expired token", expired, utils.ErrTokenExpired.Error()},
		{"forged signature", forged, utils.ErrTokenSignature.Error()},
		{"malformed token", "not.a.token", utils.ErrTokenMalformed.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.TakeAll()

			w := runAuthMiddleware(h, "Bearer "+tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotContains(t, w.Body.String(), tt.logged)

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			assert.Contains(t, entries[0].Message, tt.logged)
		})
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h, logs := newMiddlewareTest(t)

	w := runAuthMiddleware(h, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, logs.Len())
}
