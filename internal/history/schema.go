package history

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	subreddits   TEXT NOT NULL,
	keywords     TEXT NOT NULL,
	post_limit   INTEGER NOT NULL,
	sort         TEXT NOT NULL,
	min_score    INTEGER NOT NULL DEFAULT 0,
	total_posts  INTEGER NOT NULL,
	executed_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	search_id    TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	post_id      TEXT NOT NULL,
	subreddit    TEXT NOT NULL,
	title        TEXT NOT NULL,
	body         TEXT NOT NULL,
	author       TEXT NOT NULL,
	score        INTEGER NOT NULL,
	upvote_ratio REAL NOT NULL,
	num_comments INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	url          TEXT NOT NULL,
	permalink    TEXT NOT NULL,
	keywords_hit TEXT NOT NULL,
	PRIMARY KEY (search_id, position)
);

CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
`

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
