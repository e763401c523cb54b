package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devdiv-tools/jobdumper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the published corpus over HTTP without harvesting",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(artifactPath(cfg), logger)
	if err := server.Start(ctx, cfg.ListenAddr, srv.Routes(), logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	return nil
}
