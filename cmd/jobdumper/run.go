package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/store"
)

var noArchive bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one harvest and publish the artifact",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not record this run in the run archive")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"keywords", len(cfg.Keywords),
		"retries", cfg.Retries,
		"base_delay", cfg.BaseDelay.String(),
		"data_dir", cfg.DataDir,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	var archive model.RunRecorder = store.NewNopRecorder()
	if !noArchive {
		runArchive, err := store.NewRunArchive(filepath.Join(cfg.DataDir, "runs.db"))
		if err != nil {
			logger.Error("failed to open run archive", "error", err)
			os.Exit(1)
		}
		defer runArchive.Close()
		archive = runArchive
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := buildDriver(cfg, archive, logger)
	if _, err := driver.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	return nil
}
