package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
)

// csvHeader is the flat post table's column order.
var csvHeader = []string{
	"id", "subreddit", "title", "body", "author",
	"score", "upvote_ratio", "num_comments", "created_at",
	"url", "permalink", "keywords_hit",
}

// WriteCSV writes posts as an RFC-4180 table. Delimiters, quotes, and
// newlines inside fields are escaped by quoting; data is never dropped.
// The keywords_hit column holds a JSON array so it survives round-trips.
func WriteCSV(w io.Writer, posts []domain.Post) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: csv header: %v", domain.ErrSerialization, err)
	}

	for _, p := range posts {
		hits, err := json.Marshal(p.KeywordsHit)
		if err != nil {
			return fmt.Errorf("%w: keywords_hit for post %s: %v", domain.ErrSerialization, p.ID, err)
		}
		record := []string{
			p.ID,
			p.Subreddit,
			p.Title,
			p.Body,
			p.Author,
			strconv.Itoa(p.Score),
			strconv.FormatFloat(p.UpvoteRatio, 'g', -1, 64),
			strconv.Itoa(p.NumComments),
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.URL,
			p.Permalink,
			string(hits),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: csv record for post %s: %v", domain.ErrSerialization, p.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush csv: %v", domain.ErrSerialization, err)
	}
	return nil
}

// ReadCSV parses a table written by WriteCSV back into posts.
func ReadCSV(r io.Reader) ([]domain.Post, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", domain.ErrSerialization, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var posts []domain.Post
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("%w: expected %d columns, got %d", domain.ErrSerialization, len(csvHeader), len(rec))
		}

		score, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("%w: score: %v", domain.ErrSerialization, err)
		}
		ratio, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: upvote_ratio: %v", domain.ErrSerialization, err)
		}
		comments, err := strconv.Atoi(rec[7])
		if err != nil {
			return nil, fmt.Errorf("%w: num_comments: %v", domain.ErrSerialization, err)
		}
		createdAt, err := time.Parse(time.RFC3339, rec[8])
		if err != nil {
			return nil, fmt.Errorf("%w: created_at: %v", domain.ErrSerialization, err)
		}
		var hits []string
		if err := json.Unmarshal([]byte(rec[11]), &hits); err != nil {
			return nil, fmt.Errorf("%w: keywords_hit: %v", domain.ErrSerialization, err)
		}

		posts = append(posts, domain.Post{
			ID:          rec[0],
			Subreddit:   rec[1],
			Title:       rec[2],
			Body:        rec[3],
			Author:      rec[4],
			Score:       score,
			UpvoteRatio: ratio,
			NumComments: comments,
			CreatedAt:   createdAt,
			URL:         rec[9],
			Permalink:   rec[10],
			KeywordsHit: hits,
		})
	}
	return posts, nil
}
