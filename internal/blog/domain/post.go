package domain

import "time"

// MaxTitleLength is the longest title a post may carry, in characters.
const MaxTitleLength = 100

type Post struct {
	ID          int64
	Title       string
	Content     string
	PublishedAt time.Time
}
