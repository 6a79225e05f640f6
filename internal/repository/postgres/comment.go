package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO comments(post_id, author_id, content, status)
		VALUES($1, $2, $3, $4)
		RETURNING id, like_count, is_edited, created_at, updated_at`,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.Status,
	).Scan(
		&comment.ID,
		&comment.LikeCount,
		&comment.IsEdited,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, post_id, author_id, content, status, like_count, is_edited, edited_at, created_at, updated_at
		FROM comments WHERE id = $1`,
		id,
	).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Status,
		&comment.LikeCount,
		&comment.IsEdited,
		&comment.EditedAt,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) findFull(ctx context.Context, query string, args ...interface{}) ([]*model.FullComment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.FullComment
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.PostID,
			&comment.Comment.AuthorID,
			&comment.Comment.Content,
			&comment.Comment.Status,
			&comment.Comment.LikeCount,
			&comment.Comment.IsEdited,
			&comment.Comment.EditedAt,
			&comment.Comment.CreatedAt,
			&comment.Comment.UpdatedAt,
			&comment.Author.Username,
			&comment.Author.FullName,
			&comment.Author.AvatarURL,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

const fullCommentColumns = `c.id, c.post_id, c.author_id, c.content, c.status, c.like_count,
	c.is_edited, c.edited_at, c.created_at, c.updated_at,
	u.username, u.full_name, u.avatar_url`

func (r *commentRepo) FindPostComments(ctx context.Context, postID int64, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1 AND c.status = $2
		ORDER BY c.created_at DESC
		LIMIT $3
		OFFSET $4`,
		postID,
		status,
		limit,
		offset,
	)
}

func (r *commentRepo) FindByStatus(ctx context.Context, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.status = $1
		ORDER BY c.created_at ASC
		LIMIT $2
		OFFSET $3`,
		status,
		limit,
		offset,
	)
}

func (r *commentRepo) FindRecent(ctx context.Context, since time.Time, limit int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.status = $1 AND c.created_at >= $2
		ORDER BY c.created_at DESC
		LIMIT $3`,
		model.CommentApproved,
		since,
		limit,
	)
}

func (r *commentRepo) FindPopular(ctx context.Context, limit int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.status = $1 AND c.like_count > 0
		ORDER BY c.like_count DESC, c.created_at DESC
		LIMIT $2`,
		model.CommentApproved,
		limit,
	)
}

func (r *commentRepo) SearchByContent(ctx context.Context, keyword string, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.status = $1 AND c.content ILIKE '%' || $2 || '%'
		ORDER BY c.created_at DESC
		LIMIT $3
		OFFSET $4`,
		model.CommentApproved,
		keyword,
		limit,
		offset,
	)
}

// DeleteOldRejected hard-deletes rejected comments that have sat untouched
// since before the cutoff. Rejected comments never count, so no counter
// resync is needed.
func (r *commentRepo) DeleteOldRejected(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		"DELETE FROM comments WHERE status = $1 AND updated_at < $2",
		model.CommentRejected,
		before,
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string, editedAt time.Time) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE comments SET content = $1, is_edited = true, edited_at = $2, updated_at = now() WHERE id = $3",
		content,
		editedAt,
		id,
	)
	return err
}

func (r *commentRepo) UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error {
	_, err := r.db.Exec(ctx, "UPDATE comments SET status = $1, updated_at = now() WHERE id = $2", status, id)
	return err
}

// UpdateStatusBulk moves a batch of comments into status. Soft-deleted
// comments are skipped: nothing leaves DELETED, not even a bulk write.
func (r *commentRepo) UpdateStatusBulk(ctx context.Context, ids []int64, status model.CommentStatus) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE comments SET status = $1, updated_at = now() WHERE id = ANY($2) AND status <> $3",
		status,
		ids,
		model.CommentDeleted,
	)
	return err
}

// FindPostIDs returns the distinct parent posts of the given comments.
func (r *commentRepo) FindPostIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT post_id FROM comments WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postIDs []int64
	for rows.Next() {
		var postID int64
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		postIDs = append(postIDs, postID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return postIDs, nil
}

func (r *commentRepo) UpdateLikes(ctx context.Context, id int64, delta int64) error {
	_, err := r.db.Exec(ctx, "UPDATE comments SET like_count = like_count + $1 WHERE id = $2", delta, id)
	return err
}
