package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteSink(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSink: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(url, title string) model.JobRecord {
	return model.JobRecord{
		Title:     title,
		Company:   "Acme",
		Salary:    map[string]any{"currency": "GBP", "minValue": 30000.0},
		URL:       url,
		ScrapedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		Extra:     map[string]any{"skills": []any{"Go"}},
	}
}

func TestAppendThenGet(t *testing.T) {
	s := newTestSink(t)
	ctx := model.WithRunID(context.Background(), "run-1")

	if err := s.Append(ctx, []model.JobRecord{testRecord("https://example.com/j/1", "Engineer")}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rec, ok, err := s.Get(ctx, "https://example.com/j/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be stored")
	}
	if rec["title"] != "Engineer" || rec["company"] != "Acme" {
		t.Errorf("unexpected record: %v", rec)
	}
	salary, _ := rec["salary"].(map[string]any)
	if salary["currency"] != "GBP" || salary["minValue"] != 30000.0 {
		t.Errorf("salary = %v", rec["salary"])
	}
	if _, present := rec["location"]; present {
		t.Error("empty location should not be stored")
	}

	var runID string
	if err := s.db.QueryRow("SELECT run_id FROM job_records WHERE url = ?", "https://example.com/j/1").Scan(&runID); err != nil {
		t.Fatalf("query run_id: %v", err)
	}
	if runID != "run-1" {
		t.Errorf("run_id = %q, want run-1", runID)
	}
}

func TestAppendUpsertsByURL(t *testing.T) {
	s := newTestSink(t)
	ctx := context.Background()

	if err := s.Append(ctx, []model.JobRecord{
		testRecord("https://example.com/j/1", "Engineer"),
		testRecord("https://example.com/j/2", "Designer"),
	}); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := s.Append(ctx, []model.JobRecord{testRecord("https://example.com/j/1", "Senior Engineer")}); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records, got %d", count)
	}

	rec, _, err := s.Get(ctx, "https://example.com/j/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec["title"] != "Senior Engineer" {
		t.Errorf("expected updated title, got %v", rec["title"])
	}
}

func TestGetUnknownReturnsFalse(t *testing.T) {
	s := newTestSink(t)

	_, ok, err := s.Get(context.Background(), "https://example.com/nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected no record for unknown url")
	}
}

func TestAppendEmptyBatch(t *testing.T) {
	s := newTestSink(t)
	if err := s.Append(context.Background(), nil); err != nil {
		t.Fatalf("Append(nil): %v", err)
	}
	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d", count)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s1, err := NewSQLiteSink(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSink: %v", err)
	}
	if err := s1.Append(ctx, []model.JobRecord{testRecord("https://example.com/j/9", "Chef")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteSink(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if _, ok, err := s2.Get(ctx, "https://example.com/j/9"); err != nil || !ok {
		t.Errorf("expected record after reopen, ok=%v err=%v", ok, err)
	}
}
