package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flairbot/pkg/channelref"
	"flairbot/pkg/domain"
	"flairbot/pkg/filter"
	"flairbot/pkg/flair"
	"flairbot/pkg/linkextract"
	"flairbot/pkg/ownership"
)

// CommentSource returns the comments of the thread being scanned
type CommentSource interface {
	FetchComments(ctx context.Context) ([]domain.Comment, error)
}

// ChannelLookup finds a channel profile for a lookup key.
// A nil profile with a nil error means no channel matched.
type ChannelLookup interface {
	LookupChannel(ctx context.Context, key channelref.Key) (*domain.ChannelProfile, error)
}

// FlairApplier sets an author's flair, replacing any previous one
type FlairApplier interface {
	ApplyFlair(ctx context.Context, author, text, templateID string) error
}

// AssignmentSaver records applied flairs for auditing
type AssignmentSaver interface {
	SaveAssignment(ctx context.Context, assignment *domain.FlairAssignment) error
}

// Config wires the pipeline's collaborators and policy
type Config struct {
	Source  CommentSource
	Lookup  ChannelLookup
	Applier FlairApplier

	// Saver is optional
	Saver AssignmentSaver

	Policy flair.Policy
	Days   int
	DryRun bool

	Logger zerolog.Logger

	// Now defaults to time.Now
	Now func() time.Time
}

// Pipeline runs the scan once: fetch, extract, filter, resolve, look up, verify, apply.
// Comments are handled one at a time in the order the source returns them.
type Pipeline struct {
	cfg Config
	log zerolog.Logger
}

// Summary counts what happened to the comments of one run
type Summary struct {
	RunID        string
	Fetched      int
	Candidates   int
	NoKey        int
	NotFound     int
	MissingData  int
	NotMentioned int

	// Computed counts verified authors whose badge was built, Applied those
	// whose flair was set. They differ only in dry-run.
	Computed int
	Applied  int
}

// NewPipeline creates a new pipeline
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("comment source is not set")
	}
	if cfg.Lookup == nil {
		return nil, fmt.Errorf("channel lookup is not set")
	}
	if cfg.Applier == nil && !cfg.DryRun {
		return nil, fmt.Errorf("flair applier is not set")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Pipeline{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Run executes the pipeline. Skipped comments are counted in the summary; a
// failing collaborator call ends the run with an error.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := p.log.With().Str("run_id", summary.RunID).Logger()

	comments, err := p.cfg.Source.FetchComments(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch comments: %w", err)
	}
	summary.Fetched = len(comments)

	candidates, err := p.selectCandidates(ctx, comments)
	if err != nil {
		return summary, err
	}
	summary.Candidates = len(candidates)
	log.Info().Int("fetched", summary.Fetched).Int("candidates", summary.Candidates).Int("days", p.cfg.Days).Msg("Selected comments with video links")

	for i := range candidates {
		if err := p.processComment(ctx, log, &candidates[i], &summary); err != nil {
			return summary, err
		}
	}

	log.Info().
		Int("computed", summary.Computed).
		Int("applied", summary.Applied).
		Int("not_found", summary.NotFound).
		Int("not_mentioned", summary.NotMentioned).
		Int("missing_data", summary.MissingData).
		Int("no_key", summary.NoKey).
		Bool("dry_run", p.cfg.DryRun).
		Msg("Run complete")

	return summary, nil
}

// selectCandidates extracts links and keeps recent comments by existing authors
func (p *Pipeline) selectCandidates(ctx context.Context, comments []domain.Comment) ([]domain.Comment, error) {
	withLinks := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if link, ok := linkextract.Extract(c.Body); ok {
			c = c.WithVideoLink(link)
		}
		withLinks = append(withLinks, c)
	}

	filtered, err := filter.FilterComments(ctx, withLinks,
		filter.NewVideoLinkFilter(),
		filter.NewDeletedAuthorFilter(),
		filter.NewDateRangeFilter(p.cfg.Days, p.cfg.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to filter comments: %w", err)
	}
	return filtered, nil
}

// processComment verifies one comment's channel and applies its flair
func (p *Pipeline) processComment(ctx context.Context, log zerolog.Logger, comment *domain.Comment, summary *Summary) error {
	log = log.With().Str("author", comment.Author).Str("link", comment.VideoLink).Logger()

	key, ok := channelref.Resolve(comment.VideoLink)
	if !ok {
		summary.NoKey++
		log.Info().Msg("Link does not name a channel")
		return nil
	}

	channel, err := p.cfg.Lookup.LookupChannel(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to look up channel %s for %s: %w", key, comment.Author, err)
	}

	verification, outcome := ownership.Verify(comment, channel)
	switch outcome {
	case ownership.ChannelNotFound:
		summary.NotFound++
		log.Warn().Str("key", key.String()).Msg("No channel found")
		return nil
	case ownership.MissingData:
		summary.MissingData++
		log.Warn().Str("channel_id", channel.ID).Msg("Channel has no description or statistics")
		return nil
	case ownership.NotMentioned:
		summary.NotMentioned++
		log.Info().Str("channel_id", channel.ID).Msg("Channel description does not mention author")
		return nil
	}

	badge := flair.Build(verification, p.cfg.Policy)
	log.Info().
		Str("channel_id", channel.ID).
		Str("subscribers", humanize.Comma(int64(channel.SubscriberCount))).
		Str("views", humanize.Comma(int64(channel.ViewCount))).
		Str("tier", badge.TierID).
		Str("flair", badge.Text).
		Msg("Channel verified")

	summary.Computed++

	if !p.cfg.DryRun {
		if err := p.cfg.Applier.ApplyFlair(ctx, comment.Author, badge.Text, badge.TierID); err != nil {
			return fmt.Errorf("failed to apply flair for %s: %w", comment.Author, err)
		}
		summary.Applied++
	}

	p.saveAssignment(ctx, log, summary.RunID, verification, badge)
	return nil
}

// saveAssignment writes the audit record. Failures are logged and do not end the run.
func (p *Pipeline) saveAssignment(ctx context.Context, log zerolog.Logger, runID string, v *domain.Verification, badge flair.Badge) {
	if p.cfg.Saver == nil {
		return
	}

	assignment := &domain.FlairAssignment{
		RunID:        runID,
		Author:       v.Comment.Author,
		CommentID:    v.Comment.ID,
		ChannelID:    v.Channel.ID,
		ChannelTitle: v.Channel.Title,
		Subscribers:  v.Channel.SubscriberCount,
		Views:        v.Channel.ViewCount,
		TierID:       badge.TierID,
		Text:         badge.Text,
		DryRun:       p.cfg.DryRun,
		AppliedAt:    p.cfg.Now().UTC(),
	}
	if err := p.cfg.Saver.SaveAssignment(ctx, assignment); err != nil {
		log.Error().Err(err).Msg("Failed to save flair assignment")
	}
}
