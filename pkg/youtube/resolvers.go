package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"flairbot/pkg/channelref"
	"flairbot/pkg/httpclient"
)

// FeedResolver resolves legacy usernames through the public uploads feed,
// which still answers for usernames the Data API no longer knows.
type FeedResolver struct {
	client     *httpclient.HTTPClient
	feedParser *gofeed.Parser
	siteURL    string
}

// NewFeedResolver creates a feed resolver against siteURL
func NewFeedResolver(client *httpclient.HTTPClient, siteURL string) *FeedResolver {
	return &FeedResolver{
		client:     client,
		feedParser: gofeed.NewParser(),
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// ResolveChannelID returns the channel ID of the uploads feed for username
func (r *FeedResolver) ResolveChannelID(ctx context.Context, username string) (string, error) {
	feedURL := r.siteURL + "/feeds/videos.xml?user=" + url.QueryEscape(username)

	resp, err := r.client.Get(ctx, feedURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := r.feedParser.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}

	// <yt:channelId> carries the ID; the alternate link is a fallback
	if ids := feed.Extensions["yt"]["channelId"]; len(ids) > 0 && channelref.IsChannelID(ids[0].Value) {
		return ids[0].Value, nil
	}
	if key, ok := channelref.Resolve(feed.Link); ok && key.Kind == channelref.ByID && channelref.IsChannelID(key.Value) {
		return key.Value, nil
	}

	return "", nil
}

// PageResolver resolves old custom channel names (youtube.com/c/name) by reading
// the channel ID from the channel page markup.
type PageResolver struct {
	client  *httpclient.HTTPClient
	siteURL string
}

// NewPageResolver creates a page resolver against siteURL
func NewPageResolver(client *httpclient.HTTPClient, siteURL string) *PageResolver {
	return &PageResolver{
		client:  client,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// ResolveChannelID returns the channel ID behind the custom name
func (r *PageResolver) ResolveChannelID(ctx context.Context, name string) (string, error) {
	pageURL := r.siteURL + "/c/" + url.PathEscape(name)

	resp, err := r.client.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if key, ok := channelref.Resolve(href); ok && key.Kind == channelref.ByID && channelref.IsChannelID(key.Value) {
			return key.Value, nil
		}
	}
	if id, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok && channelref.IsChannelID(id) {
		return id, nil
	}

	return "", nil
}
