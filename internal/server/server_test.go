package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/output"
)

func newTestServer(t *testing.T, artifact *model.Artifact) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), output.ArtifactFile)
	if artifact != nil {
		if err := output.NewPublisher(path).Publish(artifact); err != nil {
			t.Fatalf("publishing test artifact: %v", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(path, logger)
}

func testArtifact() *model.Artifact {
	return &model.Artifact{
		LastUpdated: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Jobs: []model.JobListing{
			{
				JobID:       "1234567",
				Title:       "Senior Software Engineer",
				PostedDate:  "2025-07-01",
				Location:    model.Location{Country: "United States", MultiLocationArray: []model.Location{}},
				Discipline:  "Software Engineering",
				CareerStage: "Senior",
				URL:         "https://careers.microsoft.com/us/en/job/1234567",
			},
		},
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestJobsJSON(t *testing.T) {
	s := newTestServer(t, testArtifact())

	rec := get(t, s, "/jobs.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"jobId":"1234567"`) || !strings.Contains(body, `"lastUpdated"`) {
		t.Errorf("body = %s", body)
	}
}

func TestJobsCSV(t *testing.T) {
	s := newTestServer(t, testArtifact())

	rec := get(t, s, "/jobs.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Number,PostedDate,Title,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Senior Software Engineer") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestNoArtifactYet(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/jobs.json", "/jobs.csv"} {
		rec := get(t, s, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404 before first publish", path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
