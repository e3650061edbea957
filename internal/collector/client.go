package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// reddit listings cap out at 100 posts per request
const perPage = 100

// APIClient fetches posts through the authenticated Reddit API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// NewAPIClient builds an authenticated Reddit client. A userAgent is required
// by Reddit's API rules.
func NewAPIClient(creds domain.Credentials) (*APIClient, error) {
	client, err := reddit.NewClient(
		reddit.Credentials{ID: creds.ClientID, Secret: creds.ClientSecret},
		reddit.WithUserAgent(creds.UserAgent),
	)
	if err != nil {
		return nil, err
	}

	// Rate Limit: Token Bucket Algorithm
	// ~60 reqs/min authenticated, so 1 req/sec is a safe buffer
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

// FetchPosts retrieves up to limit posts from a subreddit in the given sort
// order, following the listing cursor across pages.
func (c *APIClient) FetchPosts(ctx context.Context, sub string, sort domain.Sort, limit int) ([]domain.Post, error) {
	var result []domain.Post
	after := ""

	for len(result) < limit {
		count := limit - len(result)
		if count > perPage {
			count = perPage
		}

		var page []domain.Post
		err := withRetry(ctx, func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			page, after, err = c.fetchPage(ctx, sub, sort, count, after)
			return err
		})
		if err != nil {
			return nil, err
		}

		result = append(result, page...)
		if after == "" || len(page) == 0 {
			break
		}
	}
	return result, nil
}

func (c *APIClient) fetchPage(ctx context.Context, sub string, sort domain.Sort, count int, after string) ([]domain.Post, string, error) {
	opts := &reddit.ListOptions{Limit: count, After: after}

	var (
		posts []*reddit.Post
		resp  *reddit.Response
		err   error
	)
	switch sort {
	case domain.SortNew:
		posts, resp, err = c.client.Subreddit.NewPosts(ctx, sub, opts)
	case domain.SortTop:
		posts, resp, err = c.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{ListOptions: *opts, Time: "all"})
	case domain.SortRising:
		posts, resp, err = c.client.Subreddit.RisingPosts(ctx, sub, opts)
	default:
		posts, resp, err = c.client.Subreddit.HotPosts(ctx, sub, opts)
	}
	if err != nil {
		return nil, "", classifyAPIError(err)
	}

	result := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		result = append(result, domain.Post{
			ID:          p.ID,
			Subreddit:   p.SubredditName,
			Title:       p.Title,
			Body:        p.Body,
			Author:      p.Author,
			Score:       p.Score,
			UpvoteRatio: float64(p.UpvoteRatio),
			NumComments: p.NumberOfComments,
			CreatedAt:   p.Created.Time.UTC(),
			URL:         p.URL,
			Permalink:   "https://www.reddit.com" + p.Permalink,
		})
	}

	next := ""
	if resp != nil {
		next = resp.After
	}
	return result, next, nil
}

// classifyAPIError maps go-reddit failures onto the domain error kinds.
func classifyAPIError(err error) error {
	var rle *reddit.RateLimitError
	if errors.As(err, &rle) {
		return &domain.RateLimitError{}
	}

	var er *reddit.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("status %d: %w", er.Response.StatusCode, domain.ErrAuth)
		case http.StatusTooManyRequests:
			return &domain.RateLimitError{}
		}
	}
	return fmt.Errorf("reddit api: %w", err)
}
