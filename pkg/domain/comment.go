package domain

import "time"

// Comment represents a top-level reply in the source thread
type Comment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`

	// VideoLink is derived from Body; empty when the body has no video link.
	VideoLink string `json:"-"`
}

// WithVideoLink returns a copy of the comment carrying the extracted link
func (c Comment) WithVideoLink(link string) Comment {
	c.VideoLink = link
	return c
}

// CreatedAt returns the UTC creation time of the comment
func (c Comment) CreatedAt() time.Time {
	sec := int64(c.CreatedUTC)
	nsec := int64((c.CreatedUTC - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}
