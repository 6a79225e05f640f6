package dto

type CreateCommentRequest struct {
	PostID  int64  `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type BulkCommentIDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

type GetCommentsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
