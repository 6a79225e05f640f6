package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/social-service/internal/access"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/postgres"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for postgres shared by the three fake
// repositories, so cross-entity operations (comment counters, author joins)
// behave like the real schema.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*model.User
	posts         map[int64]*model.Post
	comments      map[int64]*model.Comment
	nextPostID    int64
	nextCommentID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*model.User),
		posts:    make(map[int64]*model.Post),
		comments: make(map[int64]*model.Comment),
	}
}

func (s *memStore) author(id uuid.UUID) model.UserAuthor {
	if u, ok := s.users[id]; ok {
		return model.UserAuthor{Username: u.Username, FullName: u.FullName, AvatarURL: u.AvatarURL}
	}
	return model.UserAuthor{}
}

func (s *memStore) syncCommentCount(postID int64) {
	post, ok := s.posts[postID]
	if !ok {
		return
	}

	var count int64
	for _, c := range s.comments {
		if c.PostID == postID && c.Status == model.CommentApproved {
			count++
		}
	}
	post.CommentCount = count
}

// --- users ---

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = &user

	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == usernameOrEmail || user.Email == usernameOrEmail {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]*model.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}

	for field, value := range updates {
		switch field {
		case "full_name":
			v := value.(string)
			user.FullName = &v
		case "bio":
			v := value.(string)
			user.Bio = &v
		case "avatar_url":
			v := value.(string)
			user.AvatarURL = &v
		case "role":
			user.Role = value.(model.Role)
		case "is_active":
			user.IsActive = value.(bool)
		default:
			return postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	return nil
}

// --- posts ---

type fakePostRepo struct{ s *memStore }

func (r *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextPostID++
	post.ID = r.s.nextPostID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.s.posts[post.ID] = &post

	copied := post
	return &copied, nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)}, nil
}

func (r *fakePostRepo) FindBySlug(ctx context.Context, slug string) (*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, post := range r.s.posts {
		if post.Slug == slug {
			return &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePostRepo) FindByStatus(ctx context.Context, status model.PostStatus, limit int, offset int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.FullPost
	for _, post := range r.sortedPostsLocked() {
		if post.Status == status {
			posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
		}
	}
	return pageFull(posts, limit, offset), nil
}

func (r *fakePostRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, statuses []model.PostStatus, limit int, offset int) ([]*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	allowed := make(map[model.PostStatus]bool)
	for _, status := range statuses {
		allowed[status] = true
	}

	var posts []*model.Post
	for _, post := range r.sortedPostsLocked() {
		if post.AuthorID == authorID && allowed[post.Status] {
			copied := *post
			posts = append(posts, &copied)
		}
	}
	return page(posts, limit, offset), nil
}

func (r *fakePostRepo) FindFeatured(ctx context.Context, limit int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.FullPost
	for _, post := range r.sortedPostsLocked() {
		if post.IsFeatured && post.Status == model.PostPublished {
			posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
		}
	}
	return pageFull(posts, limit, 0), nil
}

func (r *fakePostRepo) FindPopular(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var published []*model.Post
	for _, post := range r.s.posts {
		if post.Status == model.PostPublished {
			published = append(published, post)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		if published[i].ViewCount != published[j].ViewCount {
			return published[i].ViewCount > published[j].ViewCount
		}
		return published[i].LikeCount > published[j].LikeCount
	})

	var posts []*model.FullPost
	for _, post := range published {
		posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
	}
	return pageFull(posts, limit, offset), nil
}

func (r *fakePostRepo) FindTrending(ctx context.Context, since time.Time, limit int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var recent []*model.Post
	for _, post := range r.s.posts {
		if post.Status == model.PostPublished && post.PublishedAt != nil && !post.PublishedAt.Before(since) {
			recent = append(recent, post)
		}
	}
	sort.Slice(recent, func(i, j int) bool {
		if recent[i].LikeCount != recent[j].LikeCount {
			return recent[i].LikeCount > recent[j].LikeCount
		}
		return recent[i].ViewCount > recent[j].ViewCount
	})

	var posts []*model.FullPost
	for _, post := range recent {
		posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
	}
	return pageFull(posts, limit, 0), nil
}

func (r *fakePostRepo) FindRelated(ctx context.Context, authorID uuid.UUID, excludePostID int64, limit int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.FullPost
	for _, post := range r.sortedPostsLocked() {
		if post.AuthorID == authorID && post.ID != excludePostID && post.Status == model.PostPublished {
			posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
		}
	}
	return pageFull(posts, limit, 0), nil
}

func (r *fakePostRepo) SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.FullPost
	for _, post := range r.sortedPostsLocked() {
		if post.Status == model.PostPublished && strings.Contains(strings.ToLower(post.Title), strings.ToLower(title)) {
			posts = append(posts, &model.FullPost{Post: *post, Author: r.s.author(post.AuthorID)})
		}
	}
	return pageFull(posts, limit, offset), nil
}

func (r *fakePostRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, post := range r.s.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}

	for field, value := range updates {
		switch field {
		case "title":
			post.Title = value.(string)
		case "slug":
			post.Slug = value.(string)
		case "excerpt":
			post.Excerpt = value.(string)
		case "content":
			post.Content = value.(string)
		case "status":
			post.Status = value.(model.PostStatus)
		case "is_featured":
			post.IsFeatured = value.(bool)
		case "published_at":
			v := value.(time.Time)
			post.PublishedAt = &v
		default:
			return postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	post.UpdatedAt = time.Now()
	return nil
}

func (r *fakePostRepo) IncrViews(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post, ok := r.s.posts[id]; ok {
		post.ViewCount++
	}
	return nil
}

func (r *fakePostRepo) UpdateLikes(ctx context.Context, id int64, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post, ok := r.s.posts[id]; ok {
		post.LikeCount += delta
	}
	return nil
}

func (r *fakePostRepo) SyncCommentCount(ctx context.Context, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.syncCommentCount(postID)
	return nil
}

func (r *fakePostRepo) sortedPostsLocked() []*model.Post {
	posts := make([]*model.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts
}

// --- comments ---

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextCommentID++
	comment.ID = r.s.nextCommentID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.s.comments[comment.ID] = &comment

	copied := comment
	return &copied, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) FindPostComments(ctx context.Context, postID int64, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.FullComment
	for _, comment := range r.sortedCommentsLocked() {
		if comment.PostID == postID && comment.Status == status {
			comments = append(comments, &model.FullComment{Comment: *comment, Author: r.s.author(comment.AuthorID)})
		}
	}
	return pageFullComments(comments, limit, offset), nil
}

func (r *fakeCommentRepo) FindByStatus(ctx context.Context, status model.CommentStatus, limit int, offset int) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.FullComment
	for _, comment := range r.sortedCommentsLocked() {
		if comment.Status == status {
			comments = append(comments, &model.FullComment{Comment: *comment, Author: r.s.author(comment.AuthorID)})
		}
	}
	return pageFullComments(comments, limit, offset), nil
}

func (r *fakeCommentRepo) FindRecent(ctx context.Context, since time.Time, limit int) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.FullComment
	for _, comment := range r.sortedCommentsLocked() {
		if comment.Status == model.CommentApproved && !comment.CreatedAt.Before(since) {
			comments = append(comments, &model.FullComment{Comment: *comment, Author: r.s.author(comment.AuthorID)})
		}
	}
	return pageFullComments(comments, limit, 0), nil
}

func (r *fakeCommentRepo) FindPopular(ctx context.Context, limit int) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var liked []*model.Comment
	for _, comment := range r.s.comments {
		if comment.Status == model.CommentApproved && comment.LikeCount > 0 {
			liked = append(liked, comment)
		}
	}
	sort.Slice(liked, func(i, j int) bool {
		if liked[i].LikeCount != liked[j].LikeCount {
			return liked[i].LikeCount > liked[j].LikeCount
		}
		return liked[i].CreatedAt.After(liked[j].CreatedAt)
	})

	var comments []*model.FullComment
	for _, comment := range liked {
		comments = append(comments, &model.FullComment{Comment: *comment, Author: r.s.author(comment.AuthorID)})
	}
	return pageFullComments(comments, limit, 0), nil
}

func (r *fakeCommentRepo) SearchByContent(ctx context.Context, keyword string, limit int, offset int) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.FullComment
	for _, comment := range r.sortedCommentsLocked() {
		if comment.Status == model.CommentApproved && strings.Contains(strings.ToLower(comment.Content), strings.ToLower(keyword)) {
			comments = append(comments, &model.FullComment{Comment: *comment, Author: r.s.author(comment.AuthorID)})
		}
	}
	return pageFullComments(comments, limit, offset), nil
}

func (r *fakeCommentRepo) DeleteOldRejected(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, comment := range r.s.comments {
		if comment.Status == model.CommentRejected && comment.UpdatedAt.Before(before) {
			delete(r.s.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, id int64, content string, editedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &editedAt
	comment.UpdatedAt = editedAt
	return nil
}

func (r *fakeCommentRepo) UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	comment.Status = status
	return nil
}

func (r *fakeCommentRepo) UpdateStatusBulk(ctx context.Context, ids []int64, status model.CommentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		if comment, ok := r.s.comments[id]; ok && comment.Status != model.CommentDeleted {
			comment.Status = status
		}
	}
	return nil
}

func (r *fakeCommentRepo) FindPostIDs(ctx context.Context, ids []int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[int64]bool)
	var postIDs []int64
	for _, id := range ids {
		comment, ok := r.s.comments[id]
		if !ok || seen[comment.PostID] {
			continue
		}
		seen[comment.PostID] = true
		postIDs = append(postIDs, comment.PostID)
	}
	return postIDs, nil
}

func (r *fakeCommentRepo) UpdateLikes(ctx context.Context, id int64, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if comment, ok := r.s.comments[id]; ok {
		comment.LikeCount += delta
	}
	return nil
}

func (r *fakeCommentRepo) sortedCommentsLocked() []*model.Comment {
	comments := make([]*model.Comment, 0, len(r.s.comments))
	for _, comment := range r.s.comments {
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })
	return comments
}

// --- paging helpers ---

func page(posts []*model.Post, limit int, offset int) []*model.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

func pageFull(posts []*model.FullPost, limit int, offset int) []*model.FullPost {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

func pageFullComments(comments []*model.FullComment, limit int, offset int) []*model.FullComment {
	if offset >= len(comments) {
		return nil
	}
	comments = comments[offset:]
	if limit > 0 && limit < len(comments) {
		comments = comments[:limit]
	}
	return comments
}

// --- wiring ---

type testEnv struct {
	svc   *Service
	store *memStore
	redis *redis.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Setenv("ACCESS_SECRET", "test-secret")
	viper.Set("auth.access_token_ttl", time.Hour)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := newMemStore()
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			User:    &fakeUserRepo{s: store},
			Post:    &fakePostRepo{s: store},
			Comment: &fakeCommentRepo{s: store},
		},
		Redis: redisrepo.New(client),
	}

	return &testEnv{
		svc:   New(zap.NewNop(), repo),
		store: store,
		redis: client,
	}
}

func (e *testEnv) seedUser(username string, role model.Role, active bool) *model.User {
	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$invalidhashinvalidhashinvalidhashinvalidhashinvalida",
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	e.store.mu.Lock()
	e.store.users[user.ID] = user
	e.store.mu.Unlock()
	return user
}

func (e *testEnv) claims(user *model.User) access.Claims {
	return access.Claims{UserID: user.ID, Role: user.Role}
}

func (e *testEnv) postByID(id int64) model.Post {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return *e.store.posts[id]
}

func (e *testEnv) commentByID(id int64) model.Comment {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return *e.store.comments[id]
}
