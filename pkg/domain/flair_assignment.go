package domain

import "time"

// FlairAssignment records one flair applied (or computed, in dry-run mode) during a run.
//
// Assignments are written for auditing only. A run never reads them back to decide
// which comments to process.
type FlairAssignment struct {
	RunID     string `bson:"run_id" json:"run_id"`
	Author    string `bson:"author" json:"author"`
	CommentID string `bson:"comment_id" json:"comment_id"`

	ChannelID    string `bson:"channel_id" json:"channel_id"`
	ChannelTitle string `bson:"channel_title,omitempty" json:"channel_title,omitempty"`
	Subscribers  uint64 `bson:"subscribers" json:"subscribers"`
	Views        uint64 `bson:"views" json:"views"`

	TierID string `bson:"tier_id" json:"tier_id"`
	Text   string `bson:"text" json:"text"`

	DryRun    bool      `bson:"dry_run" json:"dry_run"`
	AppliedAt time.Time `bson:"applied_at" json:"applied_at"`
}
