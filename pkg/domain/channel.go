package domain

// ChannelProfile represents a looked-up YouTube channel
type ChannelProfile struct {
	ID          string
	Title       string
	Description string

	SubscriberCount uint64
	ViewCount       uint64

	// HasStatistics is false when the platform omitted statistics or hides
	// the subscriber count.
	HasStatistics bool
}

// Verification pairs a comment with the channel it was proven to own.
// Only the ownership verifier constructs one.
type Verification struct {
	Comment *Comment
	Channel *ChannelProfile
}
