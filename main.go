package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"flairbot/pkg/config"
	"flairbot/pkg/db"
	"flairbot/pkg/logging"
	"flairbot/pkg/pipeline"
	"flairbot/pkg/reddit"
	"flairbot/pkg/youtube"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Optional dotenv file read before the environment")
		dryRun  = flag.Bool("dry-run", false, "Verify and log flairs without applying them")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	os.Exit(finish(logger, err, closer))
}

// finish logs a failed run and closes the log file before main exits.
// It returns the process exit code.
func finish(logger zerolog.Logger, runErr error, closers ...io.Closer) int {
	if runErr != nil {
		logger.Error().Err(runErr).Msg("run failed")
	}
	for _, c := range closers {
		_ = c.Close()
	}
	if runErr != nil {
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	start := time.Now()

	redditClient := reddit.NewClient(cfg.Reddit.Client())
	if err := redditClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to reddit: %w", err)
	}

	ytClient, err := youtube.NewClient(ctx, youtube.Config{APIKey: cfg.YouTube.APIKey})
	if err != nil {
		return err
	}

	saver, closeSaver, err := openAuditStore(ctx, cfg.Audit, logger)
	if err != nil {
		return err
	}
	defer closeSaver()

	p, err := pipeline.NewPipeline(pipeline.Config{
		Source:  redditClient,
		Lookup:  ytClient,
		Applier: redditClient,
		Saver:   saver,
		Policy:  cfg.Flair.Policy(),
		Days:    cfg.Reddit.Days,
		DryRun:  cfg.DryRun,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("thread", redditClient.ThreadPath()).
		Int("days", cfg.Reddit.Days).
		Bool("dry_run", cfg.DryRun).
		Msg("starting flair run")

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("fetched", summary.Fetched).
		Int("candidates", summary.Candidates).
		Int("computed", summary.Computed).
		Int("applied", summary.Applied).
		Dur("duration", time.Since(start)).
		Msg("done")
	return nil
}

// openAuditStore picks the first configured store: MongoDB, then Postgres, then Supabase.
// With none configured it returns a nil saver and the run is not audited.
func openAuditStore(ctx context.Context, cfg config.AuditConfig, logger zerolog.Logger) (pipeline.AssignmentSaver, func(), error) {
	noop := func() {}

	switch {
	case cfg.MongoURI != "":
		client := db.NewClient(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err := client.Connect(ctx); err != nil {
			return nil, noop, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		logger.Info().Str("store", "mongodb").Msg("auditing flair assignments")
		return client, func() { _ = client.Close(context.Background()) }, nil

	case cfg.PostgresDSN != "":
		pg := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.PostgresDSN})
		if err := pg.Connect(ctx); err != nil {
			return nil, noop, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, err := sqlStore(ctx, pg)
		if err != nil {
			_ = pg.Close()
			return nil, noop, err
		}
		logger.Info().Str("store", "postgres").Msg("auditing flair assignments")
		return store, func() { _ = pg.Close() }, nil

	case cfg.SupabaseURL != "":
		sb := db.NewSupabaseClient(db.SupabaseConfig{
			SupabaseURL: cfg.SupabaseURL,
			SupabaseKey: cfg.SupabaseKey,
			Password:    cfg.SupabasePassword,
		})
		if err := sb.Connect(ctx); err != nil {
			return nil, noop, fmt.Errorf("failed to connect to supabase: %w", err)
		}
		if !sb.HasDirectDB() {
			logger.Info().Str("store", "supabase-rest").Msg("auditing flair assignments")
			return sb, noop, nil
		}
		store, err := sqlStore(ctx, sb)
		if err != nil {
			_ = sb.Close()
			return nil, noop, err
		}
		logger.Info().Str("store", "supabase").Msg("auditing flair assignments")
		return store, func() { _ = sb.Close() }, nil
	}

	logger.Debug().Msg("no audit store configured")
	return nil, noop, nil
}

func sqlStore(ctx context.Context, provider db.DBProvider) (*db.SQLAuditStore, error) {
	store, err := db.NewSQLAuditStore(provider)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
