package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"flairbot/pkg/channelref"
	"flairbot/pkg/db"
	"flairbot/pkg/domain"
	"flairbot/pkg/flair"
	"flairbot/pkg/linkextract"
	"flairbot/pkg/ownership"
	"flairbot/pkg/youtube"
)

// flaircheck runs the verification for a single author and link without touching Reddit
func main() {
	var (
		link     = flag.String("url", "", "YouTube channel link, or a comment body containing one")
		author   = flag.String("author", "", "Reddit username to verify")
		withName = flag.Bool("name", false, "Include the author name in the flair")
		apiKey   = flag.String("api-key", os.Getenv("YOUTUBE_API_KEY"), "YouTube Data API key")
		timeout  = flag.Duration("timeout", 30*time.Second, "Overall timeout")
		mongoURI = flag.String("mongo-uri", os.Getenv("MONGO_URI"), "Optional MongoDB audit store to list earlier flairs from")
	)
	flag.Parse()

	if *link == "" || *author == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	found, ok := linkextract.Extract(*link)
	if !ok {
		log.Fatalf("No YouTube link in %q", *link)
	}
	key, ok := channelref.Resolve(found)
	if !ok {
		log.Fatalf("Could not derive a channel from %s", found)
	}

	client, err := youtube.NewClient(ctx, youtube.Config{APIKey: *apiKey})
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	channel, err := client.LookupChannel(ctx, key)
	if err != nil {
		log.Fatalf("Lookup %s failed: %v", key, err)
	}

	policy := flair.DefaultPolicy()
	body := found
	if *withName {
		body = found + " " + policy.NameMarker
	}
	comment := &domain.Comment{Author: *author, Body: body, VideoLink: found}

	v, outcome := ownership.Verify(comment, channel)
	fmt.Printf("Key:     %s\n", key)
	if channel != nil {
		fmt.Printf("Channel: %s (%s)\n", channel.Title, channel.ID)
		fmt.Printf("Subs:    %s\n", humanize.Comma(int64(channel.SubscriberCount)))
		fmt.Printf("Views:   %s\n", humanize.Comma(int64(channel.ViewCount)))
	}
	fmt.Printf("Result:  %s\n", outcome)

	if *mongoURI != "" {
		printHistory(ctx, *mongoURI, *author)
	}

	if outcome != ownership.Verified {
		os.Exit(1)
	}

	badge := flair.Build(v, policy)
	fmt.Printf("Flair:   %s (template %s)\n", badge.Text, badge.TierID)
}

func printHistory(ctx context.Context, uri, author string) {
	client := db.NewClient(uri, "flairbot", "assignments")
	if err := client.Connect(ctx); err != nil {
		log.Printf("Failed to connect to audit store: %v", err)
		return
	}
	defer client.Close(ctx)

	past, err := client.GetAssignments(ctx, author)
	if err != nil {
		log.Printf("Failed to read history: %v", err)
		return
	}

	fmt.Printf("History: %d earlier flairs\n", len(past))
	for _, a := range past {
		fmt.Printf("  %s  %-40s  run %s\n", humanize.Time(a.AppliedAt), a.Text, a.RunID)
	}
}
