package domain

import (
	"context"
	"time"
)

// Sort is a Reddit listing sort order.
type Sort string

const (
	SortHot    Sort = "hot"
	SortNew    Sort = "new"
	SortTop    Sort = "top"
	SortRising Sort = "rising"
)

// Sorts lists every supported sort order.
var Sorts = []Sort{SortHot, SortNew, SortTop, SortRising}

// Valid reports whether s is a known sort order.
func (s Sort) Valid() bool {
	switch s {
	case SortHot, SortNew, SortTop, SortRising:
		return true
	}
	return false
}

// Credentials holds Reddit API access fields. UserAgent is optional and
// defaulted by the resolver.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	UserAgent    string `yaml:"user_agent,omitempty"`
}

// SearchRequest describes one user-initiated search. Immutable once submitted.
type SearchRequest struct {
	Subreddits []string `json:"subreddits"`
	Keywords   []string `json:"keywords"`
	Limit      int      `json:"limit"`
	Sort       Sort     `json:"sort"`
	MinScore   int      `json:"min_score,omitempty"`

	// Parallelism bounds concurrent subreddit fetches. Zero or one means
	// sequential.
	Parallelism int `json:"-"`
}

// Post is the clean data structure for storage and export.
type Post struct {
	ID          string    `json:"id"`
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url"`
	Permalink   string    `json:"permalink"`
	KeywordsHit []string  `json:"keywords_hit,omitempty"`
}

// SearchResult is one completed search: the request that produced it, the
// matching posts in fetch order, and the execution timestamp.
type SearchResult struct {
	ID        string        `json:"id"`
	Request   SearchRequest `json:"request"`
	Posts     []Post        `json:"posts"`
	Timestamp time.Time     `json:"timestamp"`
}

// Collector fetches posts from a single subreddit.
type Collector interface {
	FetchPosts(ctx context.Context, subreddit string, sort Sort, limit int) ([]Post, error)
}
