// Package ownership decides whether a YouTube channel belongs to a Reddit user.
//
// A channel proves ownership by mentioning the user in its public description,
// as u/name or r/name in either letter case. A mention must end at a character
// that cannot appear in a username, so u/alice_official does not mention alice.
package ownership

import (
	"regexp"

	"flairbot/pkg/domain"
)

// Outcome is the result of one ownership check
type Outcome int

const (
	Verified Outcome = iota
	// ChannelNotFound means the lookup returned no channel
	ChannelNotFound
	// MissingData means the channel has no description or no statistics
	MissingData
	// NotMentioned means the description does not reference the author
	NotMentioned
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case ChannelNotFound:
		return "channel_not_found"
	case MissingData:
		return "missing_data"
	case NotMentioned:
		return "not_mentioned"
	default:
		return "unknown"
	}
}

// MentionPattern matches u/author or r/author in any letter case. The name must
// not continue with another username character, so u/alice2 does not prove alice.
func MentionPattern(author string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)[ur]/` + regexp.QuoteMeta(author) + `(?:[^A-Za-z0-9_-]|$)`)
}

// Mentions reports whether description references author
func Mentions(description, author string) bool {
	if author == "" || description == "" {
		return false
	}
	return MentionPattern(author).MatchString(description)
}

// Verify checks comment's author against channel. A nil channel means the lookup
// found nothing. The returned Verification is nil unless the outcome is Verified.
func Verify(comment *domain.Comment, channel *domain.ChannelProfile) (*domain.Verification, Outcome) {
	if channel == nil {
		return nil, ChannelNotFound
	}
	if channel.Description == "" || !channel.HasStatistics {
		return nil, MissingData
	}
	if !Mentions(channel.Description, comment.Author) {
		return nil, NotMentioned
	}

	return &domain.Verification{Comment: comment, Channel: channel}, Verified
}
