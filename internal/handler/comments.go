package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), claims.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, err := strconv.ParseInt(strings.TrimSpace(c.Param("postID")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.GetCommentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	var input dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updatedComment, err := h.services.Comment.Update(c.Request.Context(), *claims, commentID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedComment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), *claims, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) commentsLike(c *gin.Context) {
	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.Like(c.Request.Context(), commentID, false); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) commentsUnlike(c *gin.Context) {
	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.Like(c.Request.Context(), commentID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) commentsGetRecent(c *gin.Context) {
	days, err0 := strconv.Atoi(c.DefaultQuery("days", "7"))
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	comments, err := h.services.Comment.FindRecent(c.Request.Context(), days, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsGetPopular(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	comments, err := h.services.Comment.FindPopular(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsSearch(c *gin.Context) {
	limit, err0 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}
	keyword := c.Query("q")

	comments, err := h.services.Comment.Search(c.Request.Context(), keyword, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) modGetPendingComments(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.GetCommentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comments, err := h.services.Comment.FindPending(c.Request.Context(), *claims, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) modApproveComment(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.Approve(c.Request.Context(), *claims, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) modRejectComment(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	commentID, err := parseCommentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.Reject(c.Request.Context(), *claims, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) modBulkApproveComments(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.BulkCommentIDsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.BulkApprove(c.Request.Context(), *claims, input.IDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) modBulkRejectComments(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	var input dto.BulkCommentIDsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Comment.BulkReject(c.Request.Context(), *claims, input.IDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) modCleanupRejectedComments(c *gin.Context) {
	claims := h.getClaimsFromRequest(c)

	olderThanDays, err := strconv.Atoi(c.DefaultQuery("olderThanDays", "30"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitOffsetInts.Error()))
		return
	}

	deleted, err := h.services.Comment.CleanupRejected(c.Request.Context(), *claims, olderThanDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func parseCommentID(c *gin.Context) (int64, error) {
	commentID, err := strconv.ParseInt(strings.TrimSpace(c.Param("commentID")), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return commentID, nil
}
