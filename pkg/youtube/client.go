// Package youtube looks up channel profiles through the YouTube Data API.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"flairbot/pkg/channelref"
	"flairbot/pkg/domain"
	"flairbot/pkg/httpclient"
)

// DefaultSiteURL serves the public feeds and channel pages used as lookup fallbacks
const DefaultSiteURL = "https://www.youtube.com"

// IDResolver turns a name the Data API cannot look up into a channel ID.
// It returns an empty ID when the name is unknown.
type IDResolver interface {
	ResolveChannelID(ctx context.Context, name string) (string, error)
}

// Config holds the API key and optional endpoint overrides
type Config struct {
	APIKey string

	// Endpoint overrides the Data API base URL
	Endpoint string

	// SiteURL overrides DefaultSiteURL
	SiteURL string
}

// Client looks up channels by the keys channelref produces
type Client struct {
	svc *yt.Service

	usernames IDResolver
	customs   IDResolver
}

// NewClient creates a Data API client with feed and page fallbacks
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	siteURL := cfg.SiteURL
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	web := httpclient.NewClient(httpclient.BrowserClient)

	return &Client{
		svc:       svc,
		usernames: NewFeedResolver(web, siteURL),
		customs:   NewPageResolver(web, siteURL),
	}, nil
}

// LookupChannel returns the channel for key, or nil when no channel matches.
//
// Legacy usernames the API no longer indexes are resolved through the channel's
// uploads feed, and old custom names (youtube.com/c/name) through the channel page.
func (c *Client) LookupChannel(ctx context.Context, key channelref.Key) (*domain.ChannelProfile, error) {
	profile, err := c.list(ctx, key)
	if err != nil || profile != nil {
		return profile, err
	}

	resolver := c.fallbackFor(key)
	if resolver == nil {
		return nil, nil
	}

	id, err := resolver.ResolveChannelID(ctx, key.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %s: %w", key, err)
	}
	if id == "" {
		return nil, nil
	}

	return c.list(ctx, channelref.Key{Kind: channelref.ByID, Value: id})
}

func (c *Client) fallbackFor(key channelref.Key) IDResolver {
	switch {
	case key.Kind == channelref.ByLegacyUsername:
		return c.usernames
	case key.Kind == channelref.ByID && !channelref.IsChannelID(key.Value):
		return c.customs
	default:
		return nil
	}
}

func (c *Client) list(ctx context.Context, key channelref.Key) (*domain.ChannelProfile, error) {
	call := c.svc.Channels.List([]string{"snippet", "statistics"}).Context(ctx)
	switch key.Kind {
	case channelref.ByLegacyUsername:
		call = call.ForUsername(key.Value)
	case channelref.ByID:
		call = call.Id(key.Value)
	default:
		call = call.ForHandle(key.Value)
	}

	resp, err := call.Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list channel %s: %w", key, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	return toProfile(resp.Items[0]), nil
}

func toProfile(item *yt.Channel) *domain.ChannelProfile {
	profile := &domain.ChannelProfile{ID: item.Id}
	if item.Snippet != nil {
		profile.Title = item.Snippet.Title
		profile.Description = strings.TrimSpace(item.Snippet.Description)
	}
	if s := item.Statistics; s != nil && !s.HiddenSubscriberCount {
		profile.SubscriberCount = s.SubscriberCount
		profile.ViewCount = s.ViewCount
		profile.HasStatistics = true
	}
	return profile
}
