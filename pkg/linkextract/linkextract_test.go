package linkextract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"bare link", "check out https://www.youtube.com/@alice thanks", "https://www.youtube.com/@alice", true},
		{"end of body", "https://www.youtube.com/channel/UC123", "https://www.youtube.com/channel/UC123", true},
		{"markdown link", "[my channel](https://www.youtube.com/user/alice)", "https://www.youtube.com/user/alice", true},
		{"markdown text is link", "[https://www.youtube.com/c/alice](https://www.youtube.com/c/alice)", "https://www.youtube.com/c/alice", true},
		{"newline terminated", "https://www.youtube.com/@bob\nsecond line", "https://www.youtube.com/@bob", true},
		{"non-breaking space", "my channel https://www.youtube.com/@alice\u00a0subscribe pls", "https://www.youtube.com/@alice", true},
		{"ideographic space", "https://www.youtube.com/@bob\u3000thanks", "https://www.youtube.com/@bob", true},
		{"escaped underscore", `https://www.youtube.com/@some\_name`, "https://www.youtube.com/@some_name", true},
		{"first of many", "https://www.youtube.com/@a https://www.youtube.com/@b", "https://www.youtube.com/@a", true},
		{"no link", "I make videos too", "", false},
		{"other domain", "https://youtu.be/abc and https://www.twitch.tv/x", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.body)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_NoDomainNeverMatches(t *testing.T) {
	bodies := []string{
		"www.youtube.com/@alice",
		"http://www.youtube.com/@alice",
		"https://youtube.com/@alice",
		"youtube channel: alice",
		"(https://m.youtube.com/@alice)",
	}
	for _, body := range bodies {
		_, ok := Extract(body)
		require.False(t, ok, body)
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		`https://www.youtube.com/@a\_b`,
		`https:\/\/www.youtube.com\/channel\/UC1`,
		`\\\\`,
		"https://www.youtube.com/@plain",
	}
	for _, in := range inputs {
		once := Clean(in)
		require.Equal(t, once, Clean(once))
		require.NotContains(t, once, `\`)
	}
}
