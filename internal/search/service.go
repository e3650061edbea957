// Package search runs the fetch → filter → store pipeline for one request.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gwalsh/redsift/internal/domain"
	"github.com/gwalsh/redsift/internal/filter"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// History is the slice of the history store the pipeline needs.
type History interface {
	Append(ctx context.Context, res domain.SearchResult) error
}

type Service struct {
	Collector domain.Collector
	History   History
	Logger    *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

func NewService(c domain.Collector, h History, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Collector: c, History: h, Logger: logger, now: time.Now}
}

// Validate checks a request before execution.
func Validate(req domain.SearchRequest) error {
	if len(req.Subreddits) == 0 {
		return fmt.Errorf("at least one subreddit is required")
	}
	if len(req.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	for _, sub := range req.Subreddits {
		if !subNameRegex.MatchString(strings.TrimSpace(sub)) {
			return fmt.Errorf("invalid subreddit name %q", sub)
		}
	}
	if req.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", req.Limit)
	}
	if !req.Sort.Valid() {
		return fmt.Errorf("unknown sort %q", req.Sort)
	}
	return nil
}

// Run executes the request: fetch each subreddit, filter by keyword and
// score, append the result to history. Subreddits are fetched sequentially
// unless the request asks for parallelism.
func (s *Service) Run(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	if err := Validate(req); err != nil {
		return domain.SearchResult{}, err
	}

	fetched, err := s.fetch(ctx, req)
	if err != nil {
		return domain.SearchResult{}, err
	}

	matched := filter.Apply(fetched, filter.Options{
		Keywords: req.Keywords,
		MinScore: req.MinScore,
	})

	res := domain.SearchResult{
		ID:        uuid.NewString(),
		Request:   req,
		Posts:     matched,
		Timestamp: s.now().UTC(),
	}

	if s.History != nil {
		if err := s.History.Append(ctx, res); err != nil {
			return domain.SearchResult{}, fmt.Errorf("record search: %w", err)
		}
	}

	s.Logger.Info("search complete",
		"id", res.ID,
		"subreddits", len(req.Subreddits),
		"fetched", len(fetched),
		"matched", len(matched),
	)
	return res, nil
}

func (s *Service) fetch(ctx context.Context, req domain.SearchRequest) ([]domain.Post, error) {
	if req.Parallelism > 1 {
		return s.fetchParallel(ctx, req)
	}

	var all []domain.Post
	for _, sub := range req.Subreddits {
		posts, err := s.Collector.FetchPosts(ctx, sub, req.Sort, req.Limit)
		if err != nil {
			return nil, fmt.Errorf("fetch r/%s: %w", sub, err)
		}
		all = append(all, posts...)
	}
	return all, nil
}

// fetchParallel fans subreddits out over a bounded worker pool. Per-subreddit
// failures are logged and skipped so one bad subreddit doesn't sink the rest;
// auth failures abort the whole search.
func (s *Service) fetchParallel(ctx context.Context, req domain.SearchRequest) ([]domain.Post, error) {
	workers := req.Parallelism
	if workers > len(req.Subreddits) {
		workers = len(req.Subreddits)
	}

	jobs := make(chan string, len(req.Subreddits))
	type outcome struct {
		sub   string
		posts []domain.Post
		err   error
	}
	results := make(chan outcome, len(req.Subreddits))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				posts, err := s.Collector.FetchPosts(ctx, sub, req.Sort, req.Limit)
				if err != nil {
					s.Logger.Error("fetch failed", "subreddit", sub, "err", err)
					results <- outcome{sub: sub, err: fmt.Errorf("fetch r/%s: %w", sub, err)}
					continue
				}
				results <- outcome{sub: sub, posts: posts}
			}
		}()
	}

	for _, sub := range req.Subreddits {
		jobs <- sub
	}
	close(jobs)
	wg.Wait()
	close(results)

	// Key on the requested name, not the canonical casing Reddit returns,
	// so every fetched page lands back under the subreddit that asked for it.
	bySubreddit := make(map[string][]domain.Post)
	for out := range results {
		if out.err != nil {
			if errors.Is(out.err, domain.ErrAuth) {
				return nil, out.err
			}
			continue
		}
		bySubreddit[out.sub] = out.posts
	}

	// Reassemble in request order so parallel and sequential runs agree.
	var all []domain.Post
	for _, sub := range req.Subreddits {
		all = append(all, bySubreddit[sub]...)
	}
	return all, nil
}
