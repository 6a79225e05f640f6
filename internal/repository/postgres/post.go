package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

const fullPostColumns = `p.id, p.author_id, p.title, p.slug, p.excerpt, p.content, p.status,
	p.view_count, p.like_count, p.comment_count, p.is_featured, p.published_at, p.created_at, p.updated_at,
	u.username, u.full_name, u.avatar_url`

func scanFullPost(row interface{ Scan(...any) error }) (*model.FullPost, error) {
	var post model.FullPost
	if err := row.Scan(
		&post.Post.ID,
		&post.Post.AuthorID,
		&post.Post.Title,
		&post.Post.Slug,
		&post.Post.Excerpt,
		&post.Post.Content,
		&post.Post.Status,
		&post.Post.ViewCount,
		&post.Post.LikeCount,
		&post.Post.CommentCount,
		&post.Post.IsFeatured,
		&post.Post.PublishedAt,
		&post.Post.CreatedAt,
		&post.Post.UpdatedAt,
		&post.Author.Username,
		&post.Author.FullName,
		&post.Author.AvatarURL,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(author_id, title, slug, excerpt, content, status, is_featured, published_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, view_count, like_count, comment_count, created_at, updated_at`,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.Status,
		post.IsFeatured,
		post.PublishedAt,
	).Scan(
		&post.ID,
		&post.ViewCount,
		&post.LikeCount,
		&post.CommentCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	row := r.db.QueryRow(
		ctx,
		"SELECT "+fullPostColumns+" FROM posts p JOIN users u ON p.author_id = u.id WHERE p.id = $1",
		id,
	)
	return scanFullPost(row)
}

func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*model.FullPost, error) {
	row := r.db.QueryRow(
		ctx,
		"SELECT "+fullPostColumns+" FROM posts p JOIN users u ON p.author_id = u.id WHERE p.slug = $1",
		slug,
	)
	return scanFullPost(row)
}

func (r *postRepo) findFull(ctx context.Context, query string, args ...interface{}) ([]*model.FullPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FullPost
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindByStatus(ctx context.Context, status model.PostStatus, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.status = $1
		ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC
		LIMIT $2
		OFFSET $3`,
		status,
		limit,
		offset,
	)
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, statuses []model.PostStatus, limit int, offset int) ([]*model.Post, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT p.id, p.author_id, p.title, p.slug, p.excerpt, p.content, p.status,
		p.view_count, p.like_count, p.comment_count, p.is_featured, p.published_at, p.created_at, p.updated_at
		FROM posts p
		WHERE p.author_id = $1 AND p.status = ANY($2)
		ORDER BY p.created_at DESC
		LIMIT $3
		OFFSET $4`,
		authorID,
		statuses,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Slug,
			&post.Excerpt,
			&post.Content,
			&post.Status,
			&post.ViewCount,
			&post.LikeCount,
			&post.CommentCount,
			&post.IsFeatured,
			&post.PublishedAt,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindFeatured(ctx context.Context, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.is_featured = true AND p.status = $1
		ORDER BY p.published_at DESC
		LIMIT $2`,
		model.PostPublished,
		limit,
	)
}

func (r *postRepo) FindPopular(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.status = $1
		ORDER BY p.view_count DESC, p.like_count DESC
		LIMIT $2
		OFFSET $3`,
		model.PostPublished,
		limit,
		offset,
	)
}

func (r *postRepo) FindTrending(ctx context.Context, since time.Time, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.status = $1 AND p.published_at >= $2
		ORDER BY p.like_count DESC, p.view_count DESC
		LIMIT $3`,
		model.PostPublished,
		since,
		limit,
	)
}

func (r *postRepo) FindRelated(ctx context.Context, authorID uuid.UUID, excludePostID int64, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.author_id = $1 AND p.id <> $2 AND p.status = $3
		ORDER BY p.published_at DESC
		LIMIT $4`,
		authorID,
		excludePostID,
		model.PostPublished,
		limit,
	)
}

func (r *postRepo) SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	return r.findFull(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.status = $1 AND p.title ILIKE '%' || $2 || '%'
		ORDER BY p.published_at DESC
		LIMIT $3
		OFFSET $4`,
		model.PostPublished,
		title,
		limit,
		offset,
	)
}

func (r *postRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

func (r *postRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowedFields := []string{"title", "slug", "excerpt", "content", "status", "is_featured", "published_at"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE posts SET updated_at = now(), "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *postRepo) IncrViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET view_count = view_count + 1 WHERE id = $1", id)
	return err
}

func (r *postRepo) UpdateLikes(ctx context.Context, id int64, delta int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET like_count = like_count + $1 WHERE id = $2", delta, id)
	return err
}

// SyncCommentCount rederives comment_count from the comments table. The
// counter is never incremented in place; this is the only write path for it.
func (r *postRepo) SyncCommentCount(ctx context.Context, postID int64) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE posts SET comment_count = (
			SELECT COUNT(*) FROM comments WHERE post_id = $1 AND status = $2
		) WHERE id = $1`,
		postID,
		model.CommentApproved,
	)
	return err
}
