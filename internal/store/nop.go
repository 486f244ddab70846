package store

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobsweep/internal/model"
)

// NopSink discards every batch.
type NopSink struct{}

func NewNopSink() *NopSink { return &NopSink{} }

func (NopSink) Append(context.Context, []model.JobRecord) error { return nil }
func (NopSink) Close() error                                    { return nil }

// LogSink writes one log line per record instead of persisting anything.
// Used by the check command.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Append(_ context.Context, records []model.JobRecord) error {
	for _, rec := range records {
		s.logger.Info("record",
			"title", rec.Title,
			"company", rec.Company,
			"location", rec.Location,
			"salary", rec.Salary,
			"url", rec.URL,
			"has_description", rec.DescriptionHTML != "",
		)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }
