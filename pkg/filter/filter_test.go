package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flairbot/pkg/domain"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func at(t time.Time) float64 {
	return float64(t.Unix())
}

func TestInRange_Boundaries(t *testing.T) {
	boundary := now.Add(-7 * 24 * time.Hour)

	require.False(t, InRange(boundary, now, 7), "window start is excluded")
	require.True(t, InRange(boundary.Add(time.Second), now, 7), "one second inside is included")
	require.False(t, InRange(now, now, 7), "now is excluded")
	require.True(t, InRange(now.Add(-time.Second), now, 7))
	require.False(t, InRange(now.Add(time.Hour), now, 7), "future is excluded")
	require.False(t, InRange(boundary.Add(-time.Hour), now, 7))
}

func TestInRange_ZeroDaysIsEmpty(t *testing.T) {
	for _, offset := range []time.Duration{-time.Hour, -time.Second, 0, time.Second} {
		require.False(t, InRange(now.Add(offset), now, 0))
	}
}

func TestDateRangeFilter(t *testing.T) {
	f := NewDateRangeFilter(2, func() time.Time { return now })
	ctx := context.Background()

	keep, err := f.ShouldKeep(ctx, domain.Comment{CreatedUTC: at(now.Add(-24 * time.Hour))})
	require.NoError(t, err)
	require.True(t, keep)

	keep, err = f.ShouldKeep(ctx, domain.Comment{CreatedUTC: at(now.Add(-48 * time.Hour))})
	require.NoError(t, err)
	require.False(t, keep)

	keep, err = f.ShouldKeep(ctx, domain.Comment{CreatedUTC: at(now.Add(-48*time.Hour)) + 1})
	require.NoError(t, err)
	require.True(t, keep)
}

func TestFilterComments(t *testing.T) {
	comments := []domain.Comment{
		{ID: "a", Author: "alice", VideoLink: "https://www.youtube.com/@alice", CreatedUTC: at(now.Add(-time.Hour))},
		{ID: "b", Author: "bob", CreatedUTC: at(now.Add(-time.Hour))},
		{ID: "c", Author: "[deleted]", VideoLink: "https://www.youtube.com/@c", CreatedUTC: at(now.Add(-time.Hour))},
		{ID: "d", Author: "dave", VideoLink: "https://www.youtube.com/@dave", CreatedUTC: at(now.Add(-30 * 24 * time.Hour))},
		{ID: "e", Author: "erin", VideoLink: "https://www.youtube.com/@erin", CreatedUTC: at(now.Add(-2 * time.Hour))},
	}

	kept, err := FilterComments(context.Background(), comments,
		NewVideoLinkFilter(),
		NewDeletedAuthorFilter(),
		NewDateRangeFilter(7, func() time.Time { return now }),
	)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	require.Equal(t, "a", kept[0].ID)
	require.Equal(t, "e", kept[1].ID)
}

type failingFilter struct{}

func (failingFilter) ShouldKeep(ctx context.Context, comment domain.Comment) (bool, error) {
	return false, errors.New("boom")
}

func TestFilterComments_Error(t *testing.T) {
	_, err := FilterComments(context.Background(), []domain.Comment{{ID: "x"}}, failingFilter{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "comment x")
}
