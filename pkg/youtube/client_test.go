package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"flairbot/pkg/channelref"
)

const (
	aliceID = "UCaliceaaaaaaaaaaaaaaaaa"
	bobID   = "UCbobbbbbbbbbbbbbbbbbbbb"
)

const aliceJSON = `{"items": [{
  "id": "UCaliceaaaaaaaaaaaaaaaaa",
  "snippet": {"title": "Alice Makes", "description": "  Official channel of u/alice  "},
  "statistics": {"subscriberCount": "1200000", "viewCount": "500", "hiddenSubscriberCount": false}
}]}`

const bobJSON = `{"items": [{
  "id": "UCbobbbbbbbbbbbbbbbbbbbb",
  "snippet": {"title": "Bob", "description": "r/bob"},
  "statistics": {"viewCount": "42", "hiddenSubscriberCount": true}
}]}`

const uploadsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="http://www.youtube.com/feeds/videos.xml?user=oldbob"/>
  <id>yt:channel:bobbbbbbbbbbbbbbbbbbbb</id>
  <yt:channelId>UCbobbbbbbbbbbbbbbbbbbbb</yt:channelId>
  <title>Bob</title>
  <link rel="alternate" href="https://www.youtube.com/channel/UCbobbbbbbbbbbbbbbbbbbbb"/>
</feed>`

const customPage = `<!DOCTYPE html><html><head>
<link rel="canonical" href="https://www.youtube.com/channel/UCaliceaaaaaaaaaaaaaaaaa">
<title>Alice Makes - YouTube</title>
</head><body></body></html>`

type fakeYouTube struct {
	server  *httptest.Server
	queries []string
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{}

	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		f.queries = append(f.queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case q.Get("forHandle") == "alice", q.Get("id") == aliceID:
			w.Write([]byte(aliceJSON))
		case q.Get("id") == bobID:
			w.Write([]byte(bobJSON))
		case q.Get("forHandle") == "broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"code": 500, "message": "backend error"}}`))
		default:
			w.Write([]byte(`{"items": []}`))
		}
	})
	mux.HandleFunc("/feeds/videos.xml", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user") != "oldbob" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(uploadsFeed))
	})
	mux.HandleFunc("/c/AliceMakes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(customPage))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeYouTube) client(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), Config{
		APIKey:   "test-key",
		Endpoint: f.server.URL + "/",
		SiteURL:  f.server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
}

func TestLookupChannel_ByHandle(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByHandle, Value: "alice"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, aliceID, profile.ID)
	require.Equal(t, "Alice Makes", profile.Title)
	require.Equal(t, "Official channel of u/alice", profile.Description)
	require.Equal(t, uint64(1200000), profile.SubscriberCount)
	require.Equal(t, uint64(500), profile.ViewCount)
	require.True(t, profile.HasStatistics)
}

func TestLookupChannel_HiddenSubscribers(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByID, Value: bobID})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.False(t, profile.HasStatistics)
}

func TestLookupChannel_NotFound(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByHandle, Value: "nobody"})
	require.NoError(t, err)
	require.Nil(t, profile)
	require.Len(t, fake.queries, 1, "handles have no fallback")
}

func TestLookupChannel_APIError(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	_, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByHandle, Value: "broken"})
	require.Error(t, err)
}

func TestLookupChannel_LegacyUsernameFallsBackToFeed(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByLegacyUsername, Value: "oldbob"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, bobID, profile.ID)
	require.Len(t, fake.queries, 2)
}

func TestLookupChannel_UnknownLegacyUsername(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByLegacyUsername, Value: "ghost"})
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestLookupChannel_CustomNameFallsBackToPage(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByID, Value: "AliceMakes"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, aliceID, profile.ID)
}

func TestPageResolver_NotFound(t *testing.T) {
	fake := newFakeYouTube(t)
	client := fake.client(t)

	profile, err := client.LookupChannel(context.Background(), channelref.Key{Kind: channelref.ByID, Value: "Unknown"})
	require.NoError(t, err)
	require.Nil(t, profile)
}
