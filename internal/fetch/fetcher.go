// Package fetch walks every result page of the careers search API for a
// keyword, retrying transient failures and falling back to cached responses
// when the retry budget runs out.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/ratelimit"
	"github.com/devdiv-tools/jobdumper/internal/retry"
)

// DefaultBaseURL is the search-results endpoint. It accepts the keyword as a
// URL parameter with no auth required.
const DefaultBaseURL = "https://careers.microsoft.com/us/en/search-results"

// pageSize is fixed upstream: the paginated response shape returns at most
// 20 records per page. The legacy shape is one unpaginated blob.
const pageSize = 20

// Fetcher retrieves all raw records for a search keyword.
type Fetcher struct {
	baseURL   string
	client    *http.Client
	retries   int           // additional attempts per page after the first
	baseDelay time.Duration // backoff unit; attempt n sleeps n × baseDelay
	limiter   *ratelimit.HostLimiter
	cache     *Cache
	logger    *slog.Logger
}

// New creates a fetcher against baseURL with the given per-page retry budget.
func New(baseURL string, client *http.Client, retries int, baseDelay time.Duration, limiter *ratelimit.HostLimiter, cache *Cache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		baseURL:   baseURL,
		client:    client,
		retries:   retries,
		baseDelay: baseDelay,
		limiter:   limiter,
		cache:     cache,
		logger:    logger,
	}
}

// FetchKeyword retrieves every result page for the keyword. On any page
// failure after retries it falls back to the keyword's cached records rather
// than returning partial data; with no cache available the keyword fails.
// Successful fetches refresh the cache.
func (f *Fetcher) FetchKeyword(ctx context.Context, keyword string) ([]model.RawRecord, error) {
	first, err := f.fetchPage(ctx, keyword, 1)
	if err != nil {
		return f.fallback(keyword, err)
	}

	records := first.jobs

	if first.paginated && first.totalJobs > pageSize {
		totalPages := (first.totalJobs + pageSize - 1) / pageSize
		for pg := 2; pg <= totalPages; pg++ {
			p, err := f.fetchPage(ctx, keyword, pg)
			if err != nil {
				f.logger.Warn("discarding partial pages",
					"keyword", keyword,
					"fetched_pages", pg-1,
					"total_pages", totalPages,
				)
				return f.fallback(keyword, err)
			}
			records = append(records, p.jobs...)
		}
	}

	if err := f.cache.Store(keyword, records); err != nil {
		f.logger.Warn("failed to refresh keyword cache", "keyword", keyword, "error", err)
	}

	return records, nil
}

// fetchPage fetches one page, retrying per the configured budget.
func (f *Fetcher) fetchPage(ctx context.Context, keyword string, pg int) (page, error) {
	var p page
	op := fmt.Sprintf("keyword %q page %d", keyword, pg)
	err := retry.Do(ctx, f.retries, f.baseDelay, f.logger, op, func() error {
		var err error
		p, err = f.doFetch(ctx, keyword, pg)
		return err
	})
	return p, err
}

// doFetch performs a single request for one page and parses the payload.
func (f *Fetcher) doFetch(ctx context.Context, keyword string, pg int) (page, error) {
	// The keyword arrives already URL-encoded (quoted phrases included), so
	// it is appended as-is instead of going through url.Values.
	u := f.baseURL + "?keywords=" + keyword
	if pg > 1 {
		u += fmt.Sprintf("&pg=%d", pg)
	}

	if err := f.limiter.WaitURL(ctx, u); err != nil {
		return page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return page{}, fmt.Errorf("building request for keyword %q page %d: %w", keyword, pg, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("fetching keyword %q page %d: %w", keyword, pg, err)
	}
	defer resp.Body.Close()

	f.logger.Debug("fetched page", "keyword", keyword, "page", pg, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("fetching keyword %q page %d", keyword, pg),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page{}, fmt.Errorf("reading keyword %q page %d: %w", keyword, pg, err)
	}

	return parsePayload(body)
}

// fallback serves the keyword's cached records after a fetch failure, or
// reports the failure when no cache exists.
func (f *Fetcher) fallback(keyword string, cause error) ([]model.RawRecord, error) {
	records, err := f.cache.Load(keyword)
	if err != nil {
		return nil, fmt.Errorf("keyword %q failed with no cached fallback (%v): %w", keyword, err, cause)
	}
	f.logger.Warn("falling back to cached results",
		"keyword", keyword,
		"cached_records", len(records),
		"error", cause,
	)
	return records, nil
}
