package notifier

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

func TestLogNotifier_Notify_success(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Notify(model.RunSummary{RunID: "r1", Search: "go-leeds", Saved: 4, Duration: 2 * time.Second})
	if err != nil {
		t.Errorf("Notify() = %v, want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "run complete") || !strings.Contains(out, "saved=4") || !strings.Contains(out, "search=go-leeds") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestLogNotifier_Notify_failedRun(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify(model.RunSummary{Search: "go-leeds", Err: errors.New("boom")}); err != nil {
		t.Errorf("Notify() = %v, want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "error=boom") {
		t.Errorf("unexpected log output: %s", out)
	}
}
