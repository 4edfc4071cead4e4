package filter

import (
	"context"
	"fmt"
	"time"

	"flairbot/pkg/domain"
)

// Filter defines the interface for comment filtering
type Filter interface {
	ShouldKeep(ctx context.Context, comment domain.Comment) (bool, error)
}

// FilterComments applies all filters to a list of comments, keeping their order
func FilterComments(ctx context.Context, comments []domain.Comment, filters ...Filter) ([]domain.Comment, error) {
	filtered := make([]domain.Comment, 0, len(comments))

	for _, comment := range comments {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, comment)
			if err != nil {
				return nil, fmt.Errorf("filter error for comment %s: %w", comment.ID, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, comment)
		}
	}

	return filtered, nil
}

// InRange reports whether created lies strictly inside the last days days before now.
// A window of zero days is empty.
func InRange(created, now time.Time, days int) bool {
	from := now.Add(-time.Duration(days) * 24 * time.Hour)
	return created.After(from) && created.Before(now)
}

// DateRangeFilter keeps comments created inside a lookback window
type DateRangeFilter struct {
	days int
	now  func() time.Time
}

// NewDateRangeFilter creates a filter with a window of the given number of days
func NewDateRangeFilter(days int, now func() time.Time) *DateRangeFilter {
	if now == nil {
		now = time.Now
	}
	return &DateRangeFilter{
		days: days,
		now:  now,
	}
}

// ShouldKeep returns false if the comment is older than the window or dated in the future
func (f *DateRangeFilter) ShouldKeep(ctx context.Context, comment domain.Comment) (bool, error) {
	return InRange(comment.CreatedAt(), f.now().UTC(), f.days), nil
}

// VideoLinkFilter keeps comments that carry an extracted video link
type VideoLinkFilter struct{}

// NewVideoLinkFilter creates a new video link filter
func NewVideoLinkFilter() *VideoLinkFilter {
	return &VideoLinkFilter{}
}

// ShouldKeep returns false if no link was extracted from the comment
func (f *VideoLinkFilter) ShouldKeep(ctx context.Context, comment domain.Comment) (bool, error) {
	return comment.VideoLink != "", nil
}

// deletedAuthor is what Reddit reports as the author of deleted or removed comments
const deletedAuthor = "[deleted]"

// DeletedAuthorFilter drops comments whose author no longer exists
type DeletedAuthorFilter struct{}

// NewDeletedAuthorFilter creates a new deleted author filter
func NewDeletedAuthorFilter() *DeletedAuthorFilter {
	return &DeletedAuthorFilter{}
}

// ShouldKeep returns false for deleted or empty authors
func (f *DeletedAuthorFilter) ShouldKeep(ctx context.Context, comment domain.Comment) (bool, error) {
	return comment.Author != "" && comment.Author != deletedAuthor, nil
}
