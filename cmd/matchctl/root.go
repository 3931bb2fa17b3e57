package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagJSONLogs bool
	flagDebug    bool
	flagTimeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "matchctl",
	Short:         "Administrative commands for the candidate matching service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSONLogs, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 5*time.Minute, "overall command timeout")
}

// env is what every subcommand needs before touching the database.
type env struct {
	cfg config.Config
	log *zap.Logger
}

func loadEnv() (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	l, err := logger.New(flagJSONLogs || cfg.Log.JSON, flagDebug || cfg.Log.Debug)
	if err != nil {
		return env{}, fmt.Errorf("create logger: %w", err)
	}
	return env{cfg: cfg, log: l}, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), flagTimeout)
}

// withDB runs fn with a bare connection pool.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, e env, db database.DB) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, e.cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, e, db)
}

// withContainer runs fn with the fully wired service graph.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := app.NewContainer(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			e.log.Warn("close container", zap.Error(err))
		}
	}()

	return fn(ctx, c)
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, raw, err)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
