// Package linkextract finds YouTube links in Reddit comment bodies.
package linkextract

import (
	"strings"
	"unicode"
)

// Prefix is the canonical watch-page domain a link must start with
const Prefix = "https://www.youtube.com"

// terminators end a link; brackets and parentheses cover Markdown link syntax
const terminators = "[]()"

// Extract returns the first YouTube link in body, cleaned of Markdown escapes.
// The second return value is false when body contains no link.
func Extract(body string) (string, bool) {
	start := strings.Index(body, Prefix)
	if start < 0 {
		return "", false
	}

	rest := body[start:]
	end := strings.IndexFunc(rest, isTerminator)
	if end >= 0 {
		rest = rest[:end]
	}

	return Clean(rest), true
}

// Clean removes the backslashes a Markdown renderer inserts before special characters.
// Clean(Clean(s)) == Clean(s).
func Clean(link string) string {
	return strings.ReplaceAll(link, `\`, "")
}

func isTerminator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(terminators, r)
}
