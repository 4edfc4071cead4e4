package db

import (
	"context"
	"fmt"

	"flairbot/pkg/domain"
)

// SQLAuditStore records flair assignments in a Postgres table. Any DBProvider
// works, so the same store serves plain Postgres and Supabase.
type SQLAuditStore struct {
	pg DBProvider
}

// NewSQLAuditStore creates a store on a connected provider
func NewSQLAuditStore(pg DBProvider) (*SQLAuditStore, error) {
	if pg == nil || pg.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	return &SQLAuditStore{pg: pg}, nil
}

// EnsureSchema creates the flair_assignment table if it does not exist
func (s *SQLAuditStore) EnsureSchema(ctx context.Context) error {
	// (run_id, author) is the key: a run assigns each author at most one flair.
	const ddl = `
CREATE TABLE IF NOT EXISTS flair_assignment (
  run_id TEXT NOT NULL,
  author TEXT NOT NULL,
  comment_id TEXT NOT NULL DEFAULT '',
  channel_id TEXT NOT NULL DEFAULT '',
  channel_title TEXT NOT NULL DEFAULT '',
  subscribers BIGINT NOT NULL DEFAULT 0,
  views BIGINT NOT NULL DEFAULT 0,
  tier_id TEXT NOT NULL DEFAULT '',
  text TEXT NOT NULL DEFAULT '',
  dry_run BOOLEAN NOT NULL DEFAULT false,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (run_id, author)
);`

	if _, err := s.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create flair_assignment table: %w", err)
	}
	return nil
}

// SaveAssignment inserts or replaces the assignment for its run and author
func (s *SQLAuditStore) SaveAssignment(ctx context.Context, a *domain.FlairAssignment) error {
	const upsert = `
INSERT INTO flair_assignment (run_id, author, comment_id, channel_id, channel_title, subscribers, views, tier_id, text, dry_run, applied_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (run_id, author) DO UPDATE SET
  comment_id = EXCLUDED.comment_id,
  channel_id = EXCLUDED.channel_id,
  channel_title = EXCLUDED.channel_title,
  subscribers = EXCLUDED.subscribers,
  views = EXCLUDED.views,
  tier_id = EXCLUDED.tier_id,
  text = EXCLUDED.text,
  dry_run = EXCLUDED.dry_run,
  applied_at = EXCLUDED.applied_at`

	_, err := s.pg.DB().ExecContext(ctx, upsert,
		a.RunID, a.Author, a.CommentID, a.ChannelID, a.ChannelTitle,
		int64(a.Subscribers), int64(a.Views), a.TierID, a.Text, a.DryRun, a.AppliedAt)
	if err != nil {
		return fmt.Errorf("insert flair assignment author=%q: %w", a.Author, err)
	}
	return nil
}
