package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("REDDIT_USERNAME", "flairbot")
	t.Setenv("REDDIT_PASSWORD", "hunter2")
	t.Setenv("REDDIT_APP_ID", "app-id")
	t.Setenv("REDDIT_APP_SECRET", "app-secret")
	t.Setenv("SUBREDDIT", "creators")
	t.Setenv("THREAD_ID", "17qn2wd")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "flairbot", cfg.Reddit.Username)
	require.Equal(t, "17qn2wd", cfg.Reddit.ThreadID)
	require.Equal(t, "flairbot/1.0", cfg.Reddit.UserAgent)
	require.Equal(t, 7, cfg.Reddit.Days)
	require.Equal(t, "yt-key", cfg.YouTube.APIKey)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "./debug.log", cfg.LogFile)
	require.False(t, cfg.DryRun)
	require.Equal(t, "flairbot", cfg.Audit.MongoDatabase)
	require.Equal(t, "assignments", cfg.Audit.MongoCollection)
	require.Empty(t, cfg.Audit.MongoURI)

	policy := cfg.Flair.Policy()
	require.Equal(t, uint64(100000), policy.SubscriberThreshold)
	require.Equal(t, uint64(1000000), policy.ViewThreshold)
	require.Equal(t, "tier1", policy.First.ID)
	require.Equal(t, "tier2emoji", policy.Second.Emoji)
	require.Equal(t, "!name", policy.NameMarker)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DAYS_RANGE", "3")
	t.Setenv("SUBSCRIBER_THRESHOLD", "5000")
	t.Setenv("FLAIR_TIER1_EMOJI", "gold")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Reddit.Days)
	require.Equal(t, uint64(5000), cfg.Flair.SubscriberThreshold)
	require.Equal(t, "gold", cfg.Flair.Policy().First.Emoji)
	require.True(t, cfg.DryRun)
	require.Equal(t, "debug", cfg.LogLevel)

	client := cfg.Reddit.Client()
	require.Equal(t, "creators", client.Subreddit)
	require.Equal(t, "app-secret", client.AppSecret)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("YOUTUBE_API_KEY", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "APIKey")
}

func TestLoadConfig_BadLogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("THREAD_ID", "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("THREAD_ID=abc123\nNAME_MARKER=!show\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "abc123", cfg.Reddit.ThreadID)
	require.Equal(t, "!show", cfg.Flair.NameMarker)
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	setRequired(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}
