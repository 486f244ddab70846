package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// Row is the flattened, storage-ready form of a JobRecord shared by the SQL
// sinks. Payload holds the full pruned record as JSON.
type Row struct {
	URL        string    `gorm:"column:url;primaryKey;size:768"`
	Title      string    `gorm:"column:title;size:512"`
	Company    string    `gorm:"column:company;size:255"`
	Location   string    `gorm:"column:location;size:255"`
	DatePosted string    `gorm:"column:date_posted;size:64"`
	RunID      string    `gorm:"column:run_id;size:36;index"`
	Payload    string    `gorm:"column:payload;type:longtext"`
	ScrapedAt  time.Time `gorm:"column:scraped_at"`
}

// TableName keeps the gorm table name aligned with the SQLite schema.
func (Row) TableName() string { return "job_records" }

func toRows(ctx context.Context, records []model.JobRecord) ([]Row, error) {
	runID := model.RunIDFromContext(ctx)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec.Map())
		if err != nil {
			return nil, fmt.Errorf("encoding record %s: %w", rec.URL, err)
		}
		rows = append(rows, Row{
			URL:        rec.URL,
			Title:      rec.Title,
			Company:    rec.Company,
			Location:   rec.Location,
			DatePosted: rec.DatePosted,
			RunID:      runID,
			Payload:    string(payload),
			ScrapedAt:  rec.ScrapedAt.UTC(),
		})
	}
	return rows, nil
}
