package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"flairbot/pkg/flair"
	"flairbot/pkg/reddit"
)

// Config is read once at start and passed to every component that needs it
type Config struct {
	Reddit   RedditConfig  `mapstructure:",squash"`
	YouTube  YouTubeConfig `mapstructure:",squash"`
	Flair    FlairConfig   `mapstructure:",squash"`
	Audit    AuditConfig   `mapstructure:",squash"`
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFile  string `mapstructure:"LOG_FILE"`
	DryRun   bool   `mapstructure:"DRY_RUN"`
}

type RedditConfig struct {
	Username  string `mapstructure:"REDDIT_USERNAME" validate:"required"`
	Password  string `mapstructure:"REDDIT_PASSWORD" validate:"required"`
	AppID     string `mapstructure:"REDDIT_APP_ID" validate:"required"`
	AppSecret string `mapstructure:"REDDIT_APP_SECRET" validate:"required"`
	UserAgent string `mapstructure:"REDDIT_USER_AGENT" validate:"required"`
	BaseURL   string `mapstructure:"REDDIT_BASE_URL" validate:"url"`
	TokenURL  string `mapstructure:"REDDIT_TOKEN_URL" validate:"url"`
	Subreddit string `mapstructure:"SUBREDDIT" validate:"required"`
	ThreadID  string `mapstructure:"THREAD_ID" validate:"required,alphanum"`
	Days      int    `mapstructure:"DAYS_RANGE" validate:"gte=0"`
}

type YouTubeConfig struct {
	APIKey string `mapstructure:"YOUTUBE_API_KEY" validate:"required"`
}

type FlairConfig struct {
	Tier1ID             string `mapstructure:"FLAIR_TIER1_ID"`
	Tier1Emoji          string `mapstructure:"FLAIR_TIER1_EMOJI"`
	Tier2ID             string `mapstructure:"FLAIR_TIER2_ID"`
	Tier2Emoji          string `mapstructure:"FLAIR_TIER2_EMOJI"`
	SubscriberThreshold uint64 `mapstructure:"SUBSCRIBER_THRESHOLD"`
	ViewThreshold       uint64 `mapstructure:"VIEW_THRESHOLD"`
	NameMarker          string `mapstructure:"NAME_MARKER"`
}

// AuditConfig selects where applied flairs are recorded. All empty disables auditing.
type AuditConfig struct {
	MongoURI         string `mapstructure:"MONGO_URI"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	MongoCollection  string `mapstructure:"MONGO_COLLECTION"`
	PostgresDSN      string `mapstructure:"POSTGRES_DSN"`
	SupabaseURL      string `mapstructure:"SUPABASE_URL"`
	SupabaseKey      string `mapstructure:"SUPABASE_KEY"`
	SupabasePassword string `mapstructure:"SUPABASE_PASSWORD"`
}

// Policy returns the flair policy described by the configuration
func (c FlairConfig) Policy() flair.Policy {
	return flair.Policy{
		SubscriberThreshold: c.SubscriberThreshold,
		ViewThreshold:       c.ViewThreshold,
		First:               flair.Tier{ID: c.Tier1ID, Emoji: c.Tier1Emoji},
		Second:              flair.Tier{ID: c.Tier2ID, Emoji: c.Tier2Emoji},
		NameMarker:          c.NameMarker,
	}
}

// Client returns the settings for the Reddit client
func (c RedditConfig) Client() reddit.Config {
	return reddit.Config{
		Username:  c.Username,
		Password:  c.Password,
		AppID:     c.AppID,
		AppSecret: c.AppSecret,
		UserAgent: c.UserAgent,
		BaseURL:   c.BaseURL,
		TokenURL:  c.TokenURL,
		Subreddit: c.Subreddit,
		ThreadID:  c.ThreadID,
	}
}

// bindEnv binds every mapstructure tag, including those of nested structs, to
// the environment variable of the same name
func bindEnv(v *viper.Viper, typ reflect.Type) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")

		if field.Type.Kind() == reflect.Struct && strings.Contains(tag, "squash") {
			bindEnv(v, field.Type)
			continue
		}
		if tag != "" {
			_ = v.BindEnv(tag)
		}
	}
}

func setDefaults(v *viper.Viper) {
	policy := flair.DefaultPolicy()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "./debug.log")
	v.SetDefault("REDDIT_USER_AGENT", "flairbot/1.0")
	v.SetDefault("REDDIT_BASE_URL", reddit.DefaultBaseURL)
	v.SetDefault("REDDIT_TOKEN_URL", reddit.DefaultTokenURL)
	v.SetDefault("DAYS_RANGE", 7)
	v.SetDefault("FLAIR_TIER1_ID", policy.First.ID)
	v.SetDefault("FLAIR_TIER1_EMOJI", policy.First.Emoji)
	v.SetDefault("FLAIR_TIER2_ID", policy.Second.ID)
	v.SetDefault("FLAIR_TIER2_EMOJI", policy.Second.Emoji)
	v.SetDefault("SUBSCRIBER_THRESHOLD", policy.SubscriberThreshold)
	v.SetDefault("VIEW_THRESHOLD", policy.ViewThreshold)
	v.SetDefault("NAME_MARKER", policy.NameMarker)
	v.SetDefault("MONGO_DATABASE", "flairbot")
	v.SetDefault("MONGO_COLLECTION", "assignments")
}

// LoadConfig reads the environment, and envFile when it exists, into a validated Config.
// Environment variables win over the file.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v, reflect.TypeOf(Config{}))
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("dotenv")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
