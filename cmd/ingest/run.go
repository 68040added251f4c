package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/ingest-service/internal/adapter/sqlite"
	"github.com/user/ingest-service/internal/delivery/http/router"
	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/feed"
	"github.com/user/ingest-service/internal/usecase"
	"github.com/user/ingest-service/pkg/gitinfo"
)

func newRunCommand(flags *rootFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one ingestion pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, store, err := openStore(flags.configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			threshold, err := cfg.DateThreshold()
			if err != nil {
				return err
			}

			scrapers, err := buildScrapers(cfg)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				shutdown := serveMetrics(metricsAddr)
				defer shutdown()
			}

			ingestor := usecase.NewIngestionUseCase(
				buildFeeds(cfg),
				scrapers,
				feed.NewParser(cfg.Timeout()),
				sqlite.NewArticleRepo(store),
				sqlite.NewOperationRepo(store),
				gitinfo.Capture(ctx),
				usecase.RunOptions{
					ArticlesLimit: cfg.Global.ArticlesLimit,
					DateThreshold: threshold,
					ConfigPath:    flags.configPath,
					DBPath:        cfg.Global.DBPath,
				},
			)

			op, err := ingestor.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"run %s %s: attempted=%d succeeded=%d failed=%d\n",
				shortID(op.RunID), op.Status,
				op.ArticlesAttempted, op.ArticlesSucceeded, op.ArticlesFailed,
			)

			if op.Status == entity.OperationStatusFailed {
				return fmt.Errorf("run %s failed", shortID(op.RunID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address during the run")

	return cmd
}

// serveMetrics exposes the observability endpoint for the duration of the
// run and returns a shutdown func.
func serveMetrics(addr string) func() {
	server := &http.Server{
		Addr:         addr,
		Handler:      router.New(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("metrics listener started", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics listener failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}
}
