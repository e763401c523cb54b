// Package pipeline drives one harvest run: for each keyword, fetch every
// page, normalize the raw records, and merge them into a deduplicated corpus,
// then serialize the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/normalize"
	"github.com/devdiv-tools/jobdumper/internal/store"
)

// Driver owns the full run pipeline. Keywords are processed strictly
// sequentially; a failed keyword is logged and skipped without affecting its
// siblings. The run as a whole fails only if serializing the artifact fails.
type Driver struct {
	keywords  []string
	fetcher   model.KeywordFetcher
	publisher model.ArtifactPublisher
	archive   model.RunRecorder
	logger    *slog.Logger
}

// New creates a driver wired with all its dependencies.
func New(keywords []string, fetcher model.KeywordFetcher, publisher model.ArtifactPublisher, archive model.RunRecorder, logger *slog.Logger) *Driver {
	return &Driver{
		keywords:  keywords,
		fetcher:   fetcher,
		publisher: publisher,
		archive:   archive,
		logger:    logger,
	}
}

// Run executes one pipeline run and returns the artifact it built. The
// artifact is returned even when publishing fails, so a caller can still
// inspect the in-memory corpus.
func (d *Driver) Run(ctx context.Context) (*model.Artifact, error) {
	started := time.Now().UTC()
	merge := store.NewMergeStore()
	var failed []string

	for _, keyword := range d.keywords {
		if ctx.Err() != nil {
			break
		}

		records, err := d.fetcher.FetchKeyword(ctx, keyword)
		if err != nil {
			d.logger.Error("keyword failed", "keyword", keyword, "error", err)
			failed = append(failed, keyword)
			continue
		}
		d.mergeRecords(keyword, records, merge)
	}

	artifact := &model.Artifact{
		LastUpdated: time.Now().UTC(),
		Jobs:        merge.Values(),
	}

	if err := d.publisher.Publish(artifact); err != nil {
		return artifact, fmt.Errorf("serializing artifact: %w", err)
	}

	sum := model.RunSummary{
		StartedAt:      started,
		Duration:       time.Since(started),
		Jobs:           merge.Len(),
		Keywords:       len(d.keywords),
		FailedKeywords: failed,
	}
	if err := d.archive.RecordRun(sum); err != nil {
		d.logger.Error("failed to archive run summary", "error", err)
	}

	d.logger.Info("run complete",
		"jobs", sum.Jobs,
		"keywords", sum.Keywords,
		"failed_keywords", len(failed),
		"duration", sum.Duration.Round(time.Millisecond).String(),
	)

	return artifact, nil
}

// mergeRecords normalizes and inserts one keyword's records. Records that
// fail normalization are skipped individually; duplicates across keywords are
// reported and dropped.
func (d *Driver) mergeRecords(keyword string, records []model.RawRecord, merge *store.MergeStore) {
	for i, raw := range records {
		job, err := normalize.Record(raw)
		if err != nil {
			d.logger.Warn("skipping record",
				"keyword", keyword,
				"record", i,
				"error", err,
			)
			continue
		}
		if !merge.Insert(job) {
			d.logger.Info("skipping duplicate job",
				"keyword", keyword,
				"job_id", job.JobID,
				"title", job.Title,
			)
		}
	}
}
