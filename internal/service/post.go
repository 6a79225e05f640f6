package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newPostService(logger *zap.Logger, repo *repository.Repository) Post {
	return &postService{
		logger: logger,
		repo:   repo,
	}
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	htmlTags         = regexp.MustCompile(`<[^>]*>`)
)

func generateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	// A title of only symbols leaves nothing; the slug must never be empty.
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

const (
	excerptMaxLen      = 200
	excerptMinBoundary = 150
	excerptEllipsis    = "..."
)

/// generateExcerpt derives a short preview from the post content: tags are
// stripped, the first 200 characters are taken, and the cut is moved back to
// the last whitespace boundary when that boundary sits past character 150.
// Boundaries are measured in runes so multibyte content trims the same way.
func generateExcerpt(content string) string {
	clean := htmlTags.ReplaceAllString(content, "")

	runes := []rune(clean)
	if len(runes) <= excerptMaxLen {
		return clean
	}

	excerpt := runes[:excerptMaxLen]
	lastSpace := -1
	for i, r := range excerpt {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > excerptMinBoundary {
		excerpt = excerpt[:lastSpace]
	}

	return string(excerpt) + excerptEllipsis
}

// uniqueSlug resolves slug collisions deterministically with a numeric
/// suffix: "my-title", "my-title-2", "my-title-3", ...
func (s *postService) uniqueSlug(ctx context.Context, base string, currentSlug string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		if candidate == currentSlug {
			return candidate, nil
		}

		exists, err := s.repo.Postgres.Post.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, in dto.CreatePostRequest) (*model.Post, error) {
	status := in.Status
	if status == "" {
		status = model.PostDraft
	}
	if !status.Valid() || status == model.PostDeleted {
		return nil, ErrInvalidPostStatus
	}

	slug, err := s.uniqueSlug(ctx, generateSlug(in.Title), "")
	if err != nil {
		s.logger.Sugar().Errorf("failed to resolve slug for post(%s): %s", in.Title, err.Error())
		return nil, ErrInternal
	}

	excerpt := in.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = generateExcerpt(in.Content)
	}

	post := model.Post{
		AuthorID:   authorID,
		Title:      in.Title,
		Slug:       slug,
		Excerpt:    excerpt,
		Content:    in.Content,
		Status:     status,
		IsFeatured: in.IsFeatured,
	}
	if status == model.PostPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.evictListings(ctx, authorID)

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, caller access.Claims, postID int64, in dto.UpdatePostRequest) (*model.Post, error) {
	post, err := s.findExisting(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !access.Can(caller, access.PostEdit, post.Post.AuthorID) {
		return nil, ErrForbidden
	}

	updates := make(map[string]interface{})

	content := post.Post.Content
	if in.Content != nil {
		content = *in.Content
		updates["content"] = content
	}

	if in.Title != nil && *in.Title != post.Post.Title {
		slug, err := s.uniqueSlug(ctx, generateSlug(*in.Title), post.Post.Slug)
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve slug for post(%d): %s", postID, err.Error())
			return nil, ErrInternal
		}
		updates["title"] = *in.Title
		updates["slug"] = slug
	}

	// An explicitly blank excerpt asks for rederivation from the content.
	if in.Excerpt != nil {
		if strings.TrimSpace(*in.Excerpt) == "" {
			updates["excerpt"] = generateExcerpt(content)
		} else {
			updates["excerpt"] = *in.Excerpt
		}
	}

	if in.IsFeatured != nil {
		updates["is_featured"] = *in.IsFeatured
	}

	if in.Status != nil {
		if !in.Status.Valid() || *in.Status == model.PostDeleted {
			return nil, ErrInvalidPostStatus
		}
		updates["status"] = *in.Status
		// First transition into PUBLISHED stamps the publish time; going out
		// and back in keeps the original stamp.
		if *in.Status == model.PostPublished && post.Post.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.evictPost(ctx, postID)
	s.evictListings(ctx, post.Post.AuthorID)

	updatedPost, err := s.findExisting(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &updatedPost.Post, nil
}

func (s *postService) Publish(ctx context.Context, caller access.Claims, postID int64) (*model.Post, error) {
	post, err := s.findExisting(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !access.Can(caller, access.PostEdit, post.Post.AuthorID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{"status": model.PostPublished}
	if post.Post.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.evictPost(ctx, postID)
	s.evictListings(ctx, post.Post.AuthorID)

	publishedPost, err := s.findExisting(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &publishedPost.Post, nil
}

// findExisting loads directly from postgres, skipping the cache. Deleted
// posts resolve as not found.
func (s *postService) findExisting(ctx context.Context, postID int64) (*model.FullPost, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}
	if post.Post.Status == model.PostDeleted {
		return nil, ErrPostNotFound
	}

	return post, nil
}

func (s *postService) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	cachedPost, err := redisrepo.Get[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil {
		s.incrViews(cachedPost.Post.ID)
		return cachedPost, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
		return nil, ErrInternal
	}

	post, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), post, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
		return nil, ErrInternal
	}

	s.incrViews(post.Post.ID)

	return post, nil
}

func (s *postService) FindBySlug(ctx context.Context, slug string) (*model.FullPost, error) {
	post, err := s.repo.Postgres.Post.FindBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post by slug(%s): %s", slug, err.Error())
		return nil, ErrInternal
	}
	if post.Post.Status == model.PostDeleted {
		return nil, ErrPostNotFound
	}

	s.incrViews(post.Post.ID)

	return post, nil
}

// incrViews bumps the view counter off the request path. The count is
// advisory; a lost increment is acceptable.
func (s *postService) incrViews(postID int64) {
	go func(id int64) {
		ctx := context.Background()
		if err := s.repo.Postgres.Post.IncrViews(ctx, id); err != nil {
			s.logger.Sugar().Errorf("failed to increment views for post(%d): %s", id, err.Error())
		}
	}(postID)
}

func (s *postService) FindPublished(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	cachedPosts, err := redisrepo.GetMany[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PublishedPostsKey(limit, offset))
	if err == nil {
		return cachedPosts, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get published posts from redis: %s", err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Postgres.Post.FindByStatus(ctx, model.PostPublished, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find published posts from postgres: %s", err.Error())
		return nil, ErrInternal
	}

	if len(posts) > 0 {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PublishedPostsKey(limit, offset), posts, time.Hour); err != nil {
			s.logger.Sugar().Errorf("failed to set published posts in redis: %s", err.Error())
			return nil, ErrInternal
		}
	}

	return posts, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.Post, error) {
	statuses := []model.PostStatus{model.PostPublished, model.PostArchived}
	if includeDrafts {
		// The owner's own view includes drafts and bypasses the cache.
		statuses = append(statuses, model.PostDraft)
		posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, statuses, limit, offset)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find author(%s) posts from postgres: %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
		return posts, nil
	}

	cachedPosts, err := redisrepo.GetMany[model.Post](s.repo.Redis.Default, ctx, redisrepo.AuthorPostsKey(authorID.String(), limit, offset))
	if err == nil {
		return cachedPosts, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get author(%s) posts from redis: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, statuses, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts from postgres: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if len(posts) > 0 {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.AuthorPostsKey(authorID.String(), limit, offset), posts, time.Hour); err != nil {
			s.logger.Sugar().Errorf("failed to set author(%s) posts in redis: %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
	}

	return posts, nil
}

func (s *postService) FindFeatured(ctx context.Context, limit int) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindFeatured(ctx, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find featured posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) FindPopular(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindPopular(ctx, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find popular posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

const trendingWindow = 7 * 24 * time.Hour

func (s *postService) FindTrending(ctx context.Context, limit int) ([]*model.FullPost, error) {
	since := time.Now().Add(-trendingWindow)

	posts, err := s.repo.Postgres.Post.FindTrending(ctx, since, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find trending posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

// FindRelated lists other published posts by the same author.
func (s *postService) FindRelated(ctx context.Context, postID int64, limit int) ([]*model.FullPost, error) {
	post, err := s.findExisting(ctx, postID)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.Postgres.Post.FindRelated(ctx, post.Post.AuthorID, postID, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts related to post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.SearchByTitle(ctx, title, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts by title: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

// Like applies a raw +-1 to the like counter. The counter is advisory and
// intentionally not deduplicated per user here.
func (s *postService) Like(ctx context.Context, postID int64, unlike bool) error {
	if _, err := s.findExisting(ctx, postID); err != nil {
		return err
	}

	var delta int64 = 1
	if unlike {
		delta = -1
	}

	if err := s.repo.Postgres.Post.UpdateLikes(ctx, postID, delta); err != nil {
		s.logger.Sugar().Errorf("failed to update likes for post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	s.evictPost(ctx, postID)

	return nil
}

func (s *postService) Delete(ctx context.Context, caller access.Claims, postID int64) error {
	post, err := s.findExisting(ctx, postID)
	if err != nil {
		return err
	}

	if !access.Can(caller, access.PostDelete, post.Post.AuthorID) {
		return ErrForbidden
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, map[string]interface{}{"status": model.PostDeleted}); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	s.evictPost(ctx, postID)
	s.evictListings(ctx, post.Post.AuthorID)

	return nil
}

func (s *postService) evictPost(ctx context.Context, postID int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to evict post(%d) from redis: %s", postID, err.Error())
	}
}

func (s *postService) evictListings(ctx context.Context, authorID uuid.UUID) {
	if err := s.repo.Redis.Default.DelPattern(ctx, redisrepo.PUBLISHED_POSTS_PATTERN); err != nil {
		s.logger.Sugar().Errorf("failed to evict published posts listings from redis: %s", err.Error())
	}
	if err := s.repo.Redis.Default.DelPattern(ctx, redisrepo.AuthorPostsPattern(authorID.String())); err != nil {
		s.logger.Sugar().Errorf("failed to evict author(%s) posts listings from redis: %s", authorID.String(), err.Error())
	}
}
