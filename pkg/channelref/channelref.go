// Package channelref classifies YouTube channel URLs into lookup keys.
package channelref

import (
	"net/url"
	"strings"
)

// Kind tells the channel lookup which API parameter a key value belongs to
type Kind int

const (
	// ByHandle is a bare handle or custom name, e.g. youtube.com/@alice
	ByHandle Kind = iota
	// ByLegacyUsername is a pre-handle username, e.g. youtube.com/user/alice
	ByLegacyUsername
	// ByID is a channel ID, e.g. youtube.com/channel/UC...
	ByID
)

func (k Kind) String() string {
	switch k {
	case ByLegacyUsername:
		return "legacy_username"
	case ByID:
		return "id"
	case ByHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Key is a normalized channel lookup key
type Key struct {
	Kind  Kind
	Value string
}

func (k Key) String() string {
	return k.Kind.String() + ":" + k.Value
}

// Rule maps a path prefix to a key kind
type Rule struct {
	Prefix string
	Kind   Kind
}

// Rules are tried in order and the first matching prefix wins. "c/" is the
// old custom-URL alias and is treated as an ID the way the platform historically did.
var Rules = []Rule{
	{Prefix: "user/", Kind: ByLegacyUsername},
	{Prefix: "channel/", Kind: ByID},
	{Prefix: "c/", Kind: ByID},
}

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
}

// Resolve classifies a channel URL. It returns false when the URL does not
// point at YouTube or carries no path to classify.
func Resolve(rawURL string) (Key, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Key{}, false
	}
	if !youtubeHosts[strings.ToLower(u.Host)] {
		return Key{}, false
	}

	return ResolvePath(u.Path)
}

// ResolvePath classifies the path part of a channel URL
func ResolvePath(path string) (Key, bool) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return Key{}, false
	}

	for _, rule := range Rules {
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		value := firstSegment(path[len(rule.Prefix):])
		if value == "" {
			return Key{}, false
		}
		return Key{Kind: rule.Kind, Value: value}, true
	}

	value := strings.TrimPrefix(firstSegment(path), "@")
	if value == "" {
		return Key{}, false
	}
	return Key{Kind: ByHandle, Value: value}, true
}

// IsChannelID reports whether v has the shape of a canonical channel ID (UC + 22 characters)
func IsChannelID(v string) bool {
	return len(v) == 24 && strings.HasPrefix(v, "UC")
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
