package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/cricapi"
	"github.com/preston-bernstein/cricket-live-service/internal/server"
)

const (
	appVersion  = "dev"
	serviceName = "cricket-live-service"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	// A missing .env is fine; real environment variables win over file entries.
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cricket-live",
		Short:         "Live cricket scores service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd())
	root.AddCommand(matchesCmd())
	return root
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: serviceName,
		Version: appVersion,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the match poller (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := config.Load()
	logger := newLogger()
	// Without a key the poller records a fatal status that /ready reports, so the
	// service still starts.
	if err := cfg.Validate(); err != nil {
		logging.Warn(logger, "configuration incomplete", "error", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
	return nil
}

type matchesOutput struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Live      []matches.Match `json:"live"`
	Upcoming  []matches.Match `json:"upcoming"`
}

func matchesCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Fetch current matches once and print the classified board as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			client := cricapi.NewClient(cricapi.Config{
				BaseURL:      cfg.CricAPI.BaseURL,
				APIKey:       cfg.CricAPI.APIKey,
				DefaultBlock: cfg.CricAPI.DefaultBlock,
			})
			list, err := client.FetchCurrentMatches(ctx)
			if err != nil {
				return fmt.Errorf("fetch matches: %w", err)
			}
			now := time.Now().UTC()
			board := matches.Classify(list, now)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(matchesOutput{FetchedAt: now, Live: board.Live, Upcoming: board.Upcoming})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Request timeout")
	return cmd
}
