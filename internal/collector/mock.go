package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
)

// MockClient implements domain.Collector with deterministic fake data. Useful
// for tests and for exercising the pipeline without network access.
type MockClient struct {
	// Titles overrides the generated titles when non-empty.
	Titles []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (mc *MockClient) FetchPosts(ctx context.Context, sub string, sort domain.Sort, limit int) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var posts []domain.Post
	for i := 0; i < limit; i++ {
		title := fmt.Sprintf("[%s] simulated %s post #%d", sub, sort, i)
		if i < len(mc.Titles) {
			title = mc.Titles[i]
		}
		posts = append(posts, domain.Post{
			ID:          fmt.Sprintf("mock_%s_%d", sub, i),
			Subreddit:   sub,
			Title:       title,
			Body:        fmt.Sprintf("simulated body for post %d", i),
			Author:      "simulated_user",
			Score:       (i * 37) % 500,
			UpvoteRatio: 0.9,
			NumComments: (i * 7) % 50,
			CreatedAt:   base.Add(-time.Duration(i) * time.Hour),
			URL:         "http://localhost/mock-url",
			Permalink:   fmt.Sprintf("http://localhost/r/%s/comments/mock_%d", sub, i),
		})
	}
	return posts, nil
}
