package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"bizdir/directory-gateway/internal/scheduler"
)

type chanRefresher struct {
	calls chan struct{}
	err   error
}

func (r *chanRefresher) RefreshLookups(context.Context) error {
	r.calls <- struct{}{}
	return r.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNew_Spec(t *testing.T) {
	s := scheduler.New(&chanRefresher{}, 15, quiet())
	if got := s.Spec(); got != "@every 15m" {
		t.Errorf("Spec() = %q, want %q", got, "@every 15m")
	}
}

// Start must refresh once right away instead of waiting for the first tick.
func TestStart_RefreshesImmediately(t *testing.T) {
	for _, err := range []error{nil, errors.New("store unavailable")} {
		r := &chanRefresher{calls: make(chan struct{}, 1), err: err}
		s := scheduler.New(r, 60, quiet())

		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("Start returned unexpected error: %v", err)
		}

		select {
		case <-r.calls:
		case <-time.After(2 * time.Second):
			t.Fatal("RefreshLookups was not called on Start")
		}
		s.Stop()
	}
}

func TestStart_CancelledContextSkipsRefresh(t *testing.T) {
	r := &chanRefresher{calls: make(chan struct{}, 1)}
	s := scheduler.New(r, 60, quiet())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start returned unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-r.calls:
		t.Error("RefreshLookups should not run with a cancelled context")
	case <-time.After(100 * time.Millisecond):
	}
}
