package store

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/amishk599/jobsweep/internal/model"
)

// MySQLSink stores records in MySQL through gorm, upserting on url.
type MySQLSink struct {
	db *gorm.DB
}

// NewMySQLSink opens dsn and migrates the job_records table.
func NewMySQLSink(dsn string) (*MySQLSink, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening mysql db: %w", err)
	}
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrating job_records table: %w", err)
	}
	return &MySQLSink{db: db}, nil
}

// Append upserts the batch in a single statement.
func (s *MySQLSink) Append(ctx context.Context, records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows, err := toRows(ctx, records)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "company", "location", "date_posted", "run_id", "payload", "scraped_at"}),
	}).Create(&rows)
	if result.Error != nil {
		return fmt.Errorf("storing %d records: %w", len(rows), result.Error)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *MySQLSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
