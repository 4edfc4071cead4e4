// Package flair builds the flair text shown next to a verified creator's name.
package flair

import (
	"strings"
	"unicode/utf8"

	"flairbot/pkg/domain"
)

// MaxLength is the longest flair text Reddit accepts
const MaxLength = 64

const ellipsis = "..."

// Tier is a flair template and the emoji shown at the start of its text
type Tier struct {
	ID    string
	Emoji string
}

// Policy decides which tier a channel lands in and whether the owner's name is shown
type Policy struct {
	SubscriberThreshold uint64
	ViewThreshold       uint64

	First  Tier
	Second Tier

	// NameMarker is the token a comment must contain to have the author's name shown
	NameMarker string
}

// DefaultPolicy returns the policy used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		SubscriberThreshold: 100_000,
		ViewThreshold:       1_000_000,
		First:               Tier{ID: "tier1", Emoji: "tier1emoji"},
		Second:              Tier{ID: "tier2", Emoji: "tier2emoji"},
		NameMarker:          "!name",
	}
}

// SelectTier returns the first tier when either count reaches its threshold
func (p Policy) SelectTier(subscribers, views uint64) Tier {
	if subscribers >= p.SubscriberThreshold || views >= p.ViewThreshold {
		return p.First
	}
	return p.Second
}

// IncludeName reports whether body asks for the author's name to be shown
func (p Policy) IncludeName(body string) bool {
	return p.NameMarker != "" && strings.Contains(body, p.NameMarker)
}

// Badge is the flair text and template applied to an author
type Badge struct {
	Text   string
	TierID string
}

// Build derives the badge for a verification. The result depends only on its inputs.
func Build(v *domain.Verification, p Policy) Badge {
	subs, views := v.Channel.SubscriberCount, v.Channel.ViewCount
	tier := p.SelectTier(subs, views)

	return Badge{
		Text:   Compose(tier, v.Comment.Author, p.IncludeName(v.Comment.Body), subs, views),
		TierID: tier.ID,
	}
}

// Compose renders ":emoji: [Channel: author] Subs: X Views: Y" and fits it into MaxLength.
func Compose(tier Tier, author string, includeName bool, subscribers, views uint64) string {
	prefix := ":" + tier.Emoji + ":"
	if includeName {
		prefix += " Channel: " + author
	}
	subs, viewText := FormatCount(subscribers), FormatCount(views)

	text := prefix + " Subs: " + subs + " Views: " + viewText
	if utf8.RuneCountInString(text) <= MaxLength {
		return text
	}

	keep := MaxLength - utf8.RuneCountInString(prefix) - 10
	if keep < 0 {
		keep = 0
	}
	text = prefix + " Subs: " + truncate(subs, keep) + ellipsis + " Views: " + viewText

	// The subscriber cut alone leaves no room for the views label when the
	// prefix is long, so the whole text is clamped as well.
	if utf8.RuneCountInString(text) > MaxLength {
		text = truncate(text, MaxLength-len(ellipsis)) + ellipsis
	}
	return text
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
