// Package filter narrows fetched posts by keyword and score. All functions
// are pure and deterministic.
package filter

import (
	"strings"

	"github.com/gwalsh/redsift/internal/domain"
)

// Options controls which posts Apply keeps.
type Options struct {
	// Keywords match case-insensitively as substrings of title or body;
	// a post needs to hit at least one. Empty keeps every post.
	Keywords []string

	// MinScore drops posts below this score.
	MinScore int
}

// Apply returns the subsequence of posts passing the options, in input order.
// Kept posts are annotated with the keywords they hit. The input slice is not
// modified.
func Apply(posts []domain.Post, opts Options) []domain.Post {
	var kept []domain.Post
	for _, p := range posts {
		if p.Score < opts.MinScore {
			continue
		}
		hits := Hits(p, opts.Keywords)
		if len(opts.Keywords) > 0 && len(hits) == 0 {
			continue
		}
		p.KeywordsHit = hits
		kept = append(kept, p)
	}
	return kept
}

// Hits returns the keywords found in the post's title or body,
// case-insensitively, in keyword order.
func Hits(p domain.Post, keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	title := strings.ToLower(p.Title)
	body := strings.ToLower(p.Body)

	var hits []string
	for _, k := range keywords {
		kl := strings.ToLower(k)
		if kl == "" {
			continue
		}
		if strings.Contains(title, kl) || strings.Contains(body, kl) {
			hits = append(hits, k)
		}
	}
	return hits
}
