package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsCreate(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), claims.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updatedPost, err := h.services.Post.Update(c.Request.Context(), *claims, postID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, *updatedPost)
}

func (h *Handler) postsPublish(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	publishedPost, err := h.services.Post.Publish(c.Request.Context(), *claims, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, *publishedPost)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsGetBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	post, err := h.services.Post.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsGetPublished(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindPublished(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetFeatured(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	posts, err := h.services.Post.FindFeatured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetPopular(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindPopular(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetTrending(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	posts, err := h.services.Post.FindTrending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetRelated(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	posts, err := h.services.Post.FindRelated(c.Request.Context(), postID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetMy(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), claims.UserID, true, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	// Authors browsing their own page see drafts as well.
	claims := h.getClaimsFromRequest(c)
	includeDrafts := claims != nil && claims.UserID == userID

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), userID, includeDrafts, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsSearchByTitle(c *gin.Context) {
	limit, err0 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}
	title := c.Query("q")

	result, err := h.services.Post.SearchByTitle(c.Request.Context(), title, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) postsLike(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), postID, false); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) postsUnlike(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), postID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) postsDelete(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), *claims, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func parsePostID(c *gin.Context) (int64, error) {
	postID, err := strconv.ParseInt(strings.TrimSpace(c.Param("postID")), 10, 64)
	if err != nil {
		return 0, errInvalidPostID
	}
	return postID, nil
}
