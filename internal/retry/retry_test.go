package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, discardLogger(), "op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ExhaustsBudget(t *testing.T) {
	// With budget R, an always-failing operation is attempted exactly R+1 times.
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, discardLogger(), "op", func() error {
		calls++
		return &model.HTTPError{StatusCode: 502}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (budget 2)", calls)
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 502 {
		t.Errorf("err = %v, want wrapped HTTPError 502", err)
	}
}

func TestDo_RecoversMidway(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, discardLogger(), "op", func() error {
		calls++
		if calls < 3 {
			return &model.HTTPError{StatusCode: 500}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_MalformedPayloadNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, discardLogger(), "op", func() error {
		calls++
		return &model.MalformedPayloadError{Reason: "no jobs marker"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (not retryable)", calls)
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, 2, time.Hour, discardLogger(), "op", func() error {
		calls++
		return &model.HTTPError{StatusCode: 503}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"http 502", &model.HTTPError{StatusCode: 502}, true},
		{"http 404", &model.HTTPError{StatusCode: 404}, true},
		{"malformed payload", &model.MalformedPayloadError{Reason: "x"}, false},
		{"plain network error", errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}
