package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/devdiv-tools/jobdumper/internal/config"
	"github.com/devdiv-tools/jobdumper/internal/fetch"
	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/output"
	"github.com/devdiv-tools/jobdumper/internal/pipeline"
	"github.com/devdiv-tools/jobdumper/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobdumper",
	Short: "Harvest and publish deduplicated job listings",
	Long:  "Jobdumper harvests job listings from the careers search API across a set of keywords, dedupes them into one corpus, and publishes it as JSON plus a derived CSV.",
	// Invoking the binary with no subcommand performs one harvest.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBDUMPER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBDUMPER_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	// A .env file, if present, feeds the same env vars the deployment uses.
	_ = godotenv.Load()

	if path == "" {
		if env := os.Getenv("JOBDUMPER_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// artifactPath is where the current corpus lives within the data directory.
func artifactPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, output.ArtifactFile)
}

// buildDriver wires a pipeline driver from config.
func buildDriver(cfg *config.Config, archive model.RunRecorder, logger *slog.Logger) *pipeline.Driver {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	limiter := ratelimit.NewHostLimiter(cfg.RequestsPerSecond, 1)
	cache := fetch.NewCache(cfg.DataDir)
	fetcher := fetch.New(cfg.BaseURL, httpClient, cfg.Retries, cfg.BaseDelay, limiter, cache, logger)
	publisher := output.NewPublisher(artifactPath(cfg))
	return pipeline.New(cfg.Keywords, fetcher, publisher, archive, logger)
}
