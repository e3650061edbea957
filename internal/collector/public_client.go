package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
	"golang.org/x/time/rate"
)

const publicBaseURL = "https://www.reddit.com"

// PublicClient fetches posts from Reddit's public .json listings. No
// credentials needed, but the rate limit is stricter than the OAuth API's.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

type redditListing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data redditPostData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPostData struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("a user agent is required for public access")
	}
	return &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   publicBaseURL,
	}, nil
}

func (pc *PublicClient) FetchPosts(ctx context.Context, sub string, sort domain.Sort, limit int) ([]domain.Post, error) {
	var result []domain.Post
	after := ""

	for len(result) < limit {
		count := limit - len(result)
		if count > perPage {
			count = perPage
		}

		var page []domain.Post
		err := withRetry(ctx, func() error {
			if err := pc.limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			page, after, err = pc.fetchPage(ctx, sub, sort, count, after)
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

func (pc *PublicClient) fetchPage(ctx context.Context, sub string, sort domain.Sort, count int, after string) ([]domain.Post, string, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(count))
	q.Set("raw_json", "1")
	if sort == domain.SortTop {
		// Match the authenticated client's all-time top window; Reddit
		// defaults to the past day otherwise.
		q.Set("t", "all")
	}
	if after != "" {
		q.Set("after", after)
	}
	u := fmt.Sprintf("%s/r/%s/%s.json?%s", pc.baseURL, sub, sort, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch r/%s: %w", sub, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", classifyStatus(resp)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, "", fmt.Errorf("decode r/%s: %w", sub, err)
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		posts = append(posts, domain.Post{
			ID:          d.ID,
			Subreddit:   d.Subreddit,
			Title:       d.Title,
			Body:        d.Selftext,
			Author:      d.Author,
			Score:       d.Score,
			UpvoteRatio: d.UpvoteRatio,
			NumComments: d.NumComments,
			CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
			URL:         d.URL,
			Permalink:   publicBaseURL + d.Permalink,
		})
	}
	return posts, listing.Data.After, nil
}

func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrAuth)
	case http.StatusTooManyRequests:
		rle := &domain.RateLimitError{}
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				rle.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return rle
	}
	return fmt.Errorf("reddit public access status: %d", resp.StatusCode)
}
