package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(context.Context) (*model.Artifact, error) {
	r.runs.Add(1)
	return &model.Artifact{}, r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ImmediateFirstRun(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The first run happens before the first tick.
	deadline := time.After(2 * time.Second)
	for runner.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no run before the first interval elapsed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
	if got := runner.runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 (interval far in the future)", got)
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := runner.runs.Load(); got < 3 {
		t.Errorf("runs = %d, want at least 3 over ~5 intervals", got)
	}
}

func TestRun_KeepsGoingAfterFailedRun(t *testing.T) {
	runner := &countingRunner{err: errors.New("boom")}
	s := NewScheduler(runner, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run returned %v, want nil on shutdown", err)
	}

	if got := runner.runs.Load(); got < 2 {
		t.Errorf("runs = %d, want the loop to survive failures", got)
	}
}
