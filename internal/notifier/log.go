package notifier

import (
	"log/slog"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each summary via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the summary. Failed runs are logged at ERROR.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(s model.RunSummary) error {
	args := []any{
		"run_id", s.RunID,
		"search", s.Search,
		"pages", s.Pages,
		"discovered", s.Discovered,
		"enriched", s.Enriched,
		"fallback", s.Fallback,
		"skipped", s.Skipped,
		"saved", s.Saved,
		"duration", s.Duration.Round(time.Millisecond),
	}
	if s.Err != nil {
		n.logger.Error("run failed", append(args, "error", s.Err)...)
		return nil
	}
	n.logger.Info("run complete", args...)
	return nil
}
