package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/devdiv-tools/jobdumper/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent harvest runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	archive, err := store.NewRunArchive(filepath.Join(cfg.DataDir, "runs.db"))
	if err != nil {
		logger.Error("failed to open run archive", "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	runs, err := archive.RecentRuns(historyLimit)
	if err != nil {
		logger.Error("failed to read run history", "error", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tJOBS\tKEYWORDS\tFAILED")
	for _, run := range runs {
		failed := "-"
		if len(run.FailedKeywords) > 0 {
			failed = strings.Join(run.FailedKeywords, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.StartedAt.Format(time.RFC3339),
			run.Duration.Round(time.Second),
			run.Jobs,
			run.Keywords,
			failed,
		)
	}
	return w.Flush()
}
