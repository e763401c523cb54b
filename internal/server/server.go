// Package server exposes the published corpus over HTTP, as the raw JSON
// artifact and as the derived CSV.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
	"github.com/devdiv-tools/jobdumper/internal/output"
)

// Server serves read-only views of the artifact file.
type Server struct {
	artifactPath string
	logger       *slog.Logger
}

// New returns a server reading the artifact at artifactPath on each request,
// so it always reflects the most recent pipeline run.
func New(artifactPath string, logger *slog.Logger) *Server {
	return &Server{artifactPath: artifactPath, logger: logger}
}

// Routes builds the handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs.json", s.handleJSON)
	mux.HandleFunc("GET /jobs.csv", s.handleCSV)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.loadArtifact(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(artifact); err != nil {
		s.logger.Error("writing jobs.json response", "error", err)
	}
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.loadArtifact(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	if err := output.WriteCSV(w, artifact); err != nil {
		s.logger.Error("writing jobs.csv response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loadArtifact reads the current artifact, writing the error response itself
// when that fails. A missing artifact means no run has published yet.
func (s *Server) loadArtifact(w http.ResponseWriter) (*model.Artifact, bool) {
	artifact, err := output.LoadArtifact(s.artifactPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "no artifact published yet", http.StatusNotFound)
		} else {
			s.logger.Error("loading artifact", "error", err)
			http.Error(w, "failed to load artifact", http.StatusInternalServerError)
		}
		return nil, false
	}
	return artifact, true
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func Start(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errc := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
