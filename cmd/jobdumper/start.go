package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devdiv-tools/jobdumper/internal/scheduler"
	"github.com/devdiv-tools/jobdumper/internal/server"
	"github.com/devdiv-tools/jobdumper/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the harvest daemon",
	Long:  "Run the scheduler and the HTTP endpoint together; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"keywords", len(cfg.Keywords),
		"retries", cfg.Retries,
		"interval", cfg.Interval.String(),
		"listen_addr", cfg.ListenAddr,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	archive, err := store.NewRunArchive(filepath.Join(cfg.DataDir, "runs.db"))
	if err != nil {
		logger.Error("failed to open run archive", "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := buildDriver(cfg, archive, logger)
	sched := scheduler.NewScheduler(driver, cfg.Interval, logger)
	srv := server.New(artifactPath(cfg), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		return server.Start(gctx, cfg.ListenAddr, srv.Routes(), logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("daemon error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
