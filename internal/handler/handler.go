package handler

import (
	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const claimsCtxKey = "claims"

type Handler struct {
	logger   *zap.Logger
	services *service.Service
}

func New(logger *zap.Logger, services *service.Service) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.authRegister)
			auth.POST("/login", h.authLogin)
			auth.POST("/changePassword", h.authMiddleware, h.authChangePassword)
			auth.GET("/checkUsername", h.authCheckUsername)
			auth.GET("/checkEmail", h.authCheckEmail)
		}

		users := v1.Group("/users")
		{
			users.GET("", h.usersGetAll)
			users.GET("/@me", h.authMiddleware, h.usersGetMe)
			users.PATCH("/@me", h.authMiddleware, h.usersUpdateProfile)
			users.DELETE("/cache", h.authMiddleware, h.usersClearCache)

			user := users.Group("/:userID", h.authMiddleware)
			{
				user.PATCH("/role", h.usersUpdateRole)
				user.PATCH("/active", h.usersSetActive)
				user.DELETE("", h.usersDelete)
			}
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.postsGetPublished)
			posts.GET("/featured", h.postsGetFeatured)
			posts.GET("/popular", h.postsGetPopular)
			posts.GET("/trending", h.postsGetTrending)
			posts.GET("/search", h.postsSearchByTitle)
			posts.GET("/my", h.authMiddleware, h.postsGetMy)
			posts.GET("/author/:userID", h.notRequiredAuthMiddleware, h.postsGetByAuthor)
			posts.GET("/slug/:slug", h.postsGetBySlug)

			post := posts.Group("/:postID")
			{
				post.GET("", h.postsGetByID)
				post.GET("/related", h.postsGetRelated)
				post.PATCH("", h.authMiddleware, h.postsUpdate)
				post.POST("/publish", h.authMiddleware, h.postsPublish)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.DELETE("/unlike", h.authMiddleware, h.postsUnlike)
				post.DELETE("", h.authMiddleware, h.postsDelete)
			}
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)
			comments.GET("/post/:postID", h.commentsGet)
			comments.GET("/recent", h.commentsGetRecent)
			comments.GET("/popular", h.commentsGetPopular)
			comments.GET("/search", h.commentsSearch)

			comment := comments.Group("/:commentID")
			{
				comment.PATCH("", h.authMiddleware, h.commentsUpdate)
				comment.DELETE("", h.authMiddleware, h.commentsDelete)
				comment.POST("/like", h.authMiddleware, h.commentsLike)
				comment.DELETE("/unlike", h.authMiddleware, h.commentsUnlike)
				comment.POST("/approve", h.moderatorMiddleware, h.modApproveComment)
				comment.POST("/reject", h.moderatorMiddleware, h.modRejectComment)
			}

			comments.GET("/pending", h.moderatorMiddleware, h.modGetPendingComments)
			comments.POST("/bulkApprove", h.moderatorMiddleware, h.modBulkApproveComments)
			comments.POST("/bulkReject", h.moderatorMiddleware, h.modBulkRejectComments)
			comments.DELETE("/cleanupRejected", h.moderatorMiddleware, h.modCleanupRejectedComments)
		}
	}

	return r
}

func (h *Handler) getClaimsFromRequest(c *gin.Context) *access.Claims {
	claimsReq, _ := c.Get(claimsCtxKey)

	claims, ok := claimsReq.(access.Claims)
	if !ok {
		return nil
	}

	return &claims
}
