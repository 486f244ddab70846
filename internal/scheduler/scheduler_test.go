package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// --- Mock implementations ---

type countingRunner struct {
	name  string
	calls atomic.Int32
	err   error
	order *orderRecorder
}

type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *countingRunner) Name() string { return r.name }

func (r *countingRunner) Run(_ context.Context) (model.RunSummary, error) {
	r.calls.Add(1)
	if r.order != nil {
		r.order.mu.Lock()
		r.order.order = append(r.order.order, r.name)
		r.order.mu.Unlock()
	}
	return model.RunSummary{Search: r.name, Err: r.err}, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Tests ---

func TestRunOnce_RunsInOrder(t *testing.T) {
	rec := &orderRecorder{}
	runners := []Runner{
		&countingRunner{name: "a", order: rec},
		&countingRunner{name: "b", order: rec},
		&countingRunner{name: "c", order: rec},
	}
	s := NewScheduler(runners, time.Hour, 0, discardLogger())

	summaries := s.RunOnce(context.Background())
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if got := rec.order; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("run order = %v", got)
	}
}

func TestRunOnce_FailureDoesNotStopCycle(t *testing.T) {
	failing := &countingRunner{name: "failing", err: errors.New("listing down")}
	healthy := &countingRunner{name: "healthy"}
	s := NewScheduler([]Runner{failing, healthy}, time.Hour, 0, discardLogger())

	summaries := s.RunOnce(context.Background())
	if healthy.calls.Load() != 1 {
		t.Errorf("healthy runner calls = %d, want 1", healthy.calls.Load())
	}
	if summaries[0].Err == nil {
		t.Error("failing summary should carry its error")
	}
}

func TestRunOnce_PausesBetweenSearches(t *testing.T) {
	runners := []Runner{&countingRunner{name: "a"}, &countingRunner{name: "b"}}
	s := NewScheduler(runners, time.Hour, 50*time.Millisecond, discardLogger())

	start := time.Now()
	s.RunOnce(context.Background())
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected a pause between searches, took %v", elapsed)
	}
}

func TestRun_CancelReturnsPromptly(t *testing.T) {
	r := &countingRunner{name: "a"}
	s := NewScheduler([]Runner{r}, time.Hour, time.Minute, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
	if r.calls.Load() != 1 {
		t.Errorf("expected the immediate cycle to run once, got %d", r.calls.Load())
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	r := &countingRunner{name: "a"}
	s := NewScheduler([]Runner{r}, 100*time.Millisecond, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Allow time for at least two full passes (run → wait interval → run).
	time.Sleep(250 * time.Millisecond)
	cancel()
	<-done

	if got := r.calls.Load(); got < 2 {
		t.Errorf("runner calls = %d, want >= 2", got)
	}
}
