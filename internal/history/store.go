// Package history persists an append-only log of searches and their matching
// posts in sqlite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339

// ErrNotFound is returned when a search id has no history entry.
var ErrNotFound = errors.New("search not found")

type Store struct {
	db *sql.DB
}

// Entry is a history listing row: the request summary without post bodies.
type Entry struct {
	ID         string
	Subreddits []string
	Keywords   []string
	Limit      int
	Sort       domain.Sort
	MinScore   int
	TotalPosts int
	ExecutedAt time.Time
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append records a completed search. The log is append-only: existing rows
// are never updated or removed.
func (s *Store) Append(ctx context.Context, res domain.SearchResult) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if res.ID == "" {
		return errors.New("search id is required")
	}
	if res.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}

	subs, err := json.Marshal(res.Request.Subreddits)
	if err != nil {
		return fmt.Errorf("encode subreddits: %w", err)
	}
	kws, err := json.Marshal(res.Request.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO searches (id, subreddits, keywords, post_limit, sort, min_score, total_posts, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.ID,
		string(subs),
		string(kws),
		res.Request.Limit,
		string(res.Request.Sort),
		res.Request.MinScore,
		len(res.Posts),
		res.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert search: %w", err)
	}

	for i, p := range res.Posts {
		hits, err := json.Marshal(p.KeywordsHit)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode keywords_hit: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO posts (search_id, position, post_id, subreddit, title, body, author,
				score, upvote_ratio, num_comments, created_at, url, permalink, keywords_hit)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			res.ID, i, p.ID, p.Subreddit, p.Title, p.Body, p.Author,
			p.Score, p.UpvoteRatio, p.NumComments,
			p.CreatedAt.UTC().Format(timeFormat), p.URL, p.Permalink, string(hits),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit search: %w", err)
	}
	return nil
}

// Entries lists the history log, newest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subreddits, keywords, post_limit, sort, min_score, total_posts, executed_at
		FROM searches
		ORDER BY executed_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return entries, nil
}

// Get loads one search with its posts in stored order.
func (s *Store) Get(ctx context.Context, id string) (domain.SearchResult, error) {
	if s == nil || s.db == nil {
		return domain.SearchResult{}, errors.New("store is not initialized")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, subreddits, keywords, post_limit, sort, min_score, total_posts, executed_at
		FROM searches WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SearchResult{}, ErrNotFound
	}
	if err != nil {
		return domain.SearchResult{}, err
	}

	posts, err := s.postsFor(ctx, id)
	if err != nil {
		return domain.SearchResult{}, err
	}

	return domain.SearchResult{
		ID: e.ID,
		Request: domain.SearchRequest{
			Subreddits: e.Subreddits,
			Keywords:   e.Keywords,
			Limit:      e.Limit,
			Sort:       e.Sort,
			MinScore:   e.MinScore,
		},
		Posts:     posts,
		Timestamp: e.ExecutedAt,
	}, nil
}

// Latest returns the most recent search, or ErrNotFound on an empty log.
func (s *Store) Latest(ctx context.Context) (domain.SearchResult, error) {
	if s == nil || s.db == nil {
		return domain.SearchResult{}, errors.New("store is not initialized")
	}

	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM searches ORDER BY executed_at DESC, id LIMIT 1",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SearchResult{}, ErrNotFound
	}
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("latest search: %w", err)
	}
	return s.Get(ctx, id)
}

// AllPosts returns every stored post across searches, oldest search first.
// The dashboard aggregates over this.
func (s *Store) AllPosts(ctx context.Context) ([]domain.Post, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.post_id, p.subreddit, p.title, p.body, p.author,
			p.score, p.upvote_ratio, p.num_comments, p.created_at, p.url, p.permalink, p.keywords_hit
		FROM posts p
		JOIN searches s ON s.id = p.search_id
		ORDER BY s.executed_at, s.id, p.position
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Store) postsFor(ctx context.Context, searchID string) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, subreddit, title, body, author,
			score, upvote_ratio, num_comments, created_at, url, permalink, keywords_hit
		FROM posts WHERE search_id = ? ORDER BY position
	`, searchID)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e          Entry
		subs, kws  string
		sortVal    string
		executedAt string
	)
	err := sc.Scan(&e.ID, &subs, &kws, &e.Limit, &sortVal, &e.MinScore, &e.TotalPosts, &executedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scan search: %w", err)
	}

	if err := json.Unmarshal([]byte(subs), &e.Subreddits); err != nil {
		return Entry{}, fmt.Errorf("decode subreddits: %w", err)
	}
	if err := json.Unmarshal([]byte(kws), &e.Keywords); err != nil {
		return Entry{}, fmt.Errorf("decode keywords: %w", err)
	}
	e.Sort = domain.Sort(sortVal)

	e.ExecutedAt, err = time.Parse(timeFormat, executedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse executed_at: %w", err)
	}
	return e, nil
}

func scanPost(sc scanner) (domain.Post, error) {
	var (
		p         domain.Post
		createdAt string
		hits      string
	)
	err := sc.Scan(&p.ID, &p.Subreddit, &p.Title, &p.Body, &p.Author,
		&p.Score, &p.UpvoteRatio, &p.NumComments, &createdAt, &p.URL, &p.Permalink, &hits)
	if err != nil {
		return domain.Post{}, fmt.Errorf("scan post: %w", err)
	}

	p.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(hits), &p.KeywordsHit); err != nil {
		return domain.Post{}, fmt.Errorf("decode keywords_hit: %w", err)
	}
	return p, nil
}
