package redisrepo

import "fmt"

const (
	POST_KEY                = "post:%d"                // <postID>
	PUBLISHED_POSTS_KEY     = "posts:published:%d:%d"  // <limit>:<offset>
	PUBLISHED_POSTS_PATTERN = "posts:published:*"
	AUTHOR_POSTS_KEY        = "author:%s-posts:%d:%d" // <authorID>:<limit>:<offset>
	AUTHOR_POSTS_PATTERN    = "author:%s-posts:*"     // <authorID>
	USERS_KEY               = "users:all"
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func PublishedPostsKey(limit int, offset int) string {
	return fmt.Sprintf(PUBLISHED_POSTS_KEY, limit, offset)
}

func AuthorPostsKey(authorID string, limit int, offset int) string {
	return fmt.Sprintf(AUTHOR_POSTS_KEY, authorID, limit, offset)
}

func AuthorPostsPattern(authorID string) string {
	return fmt.Sprintf(AUTHOR_POSTS_PATTERN, authorID)
}

func UsersKey() string {
	return USERS_KEY
}
