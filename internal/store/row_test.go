package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/amishk599/jobsweep/internal/model"
)

func TestToRows(t *testing.T) {
	ctx := model.WithRunID(context.Background(), "run-7")
	rows, err := toRows(ctx, []model.JobRecord{testRecord("https://example.com/j/1", "Engineer")})
	if err != nil {
		t.Fatalf("toRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.URL != "https://example.com/j/1" || r.Title != "Engineer" || r.RunID != "run-7" {
		t.Errorf("unexpected row: %+v", r)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Payload), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["scrapedAt"] != "2026-10-19T08:00:00Z" {
		t.Errorf("scrapedAt = %v", payload["scrapedAt"])
	}
	if _, ok := payload["skills"]; !ok {
		t.Error("extra keys should be part of the payload")
	}
}

func TestMongoDocument(t *testing.T) {
	ctx := model.WithRunID(context.Background(), "run-8")
	doc := document(ctx, testRecord("https://example.com/j/2", "Baker"))

	if doc["url"] != "https://example.com/j/2" || doc["title"] != "Baker" || doc["run_id"] != "run-8" {
		t.Errorf("unexpected document: %v", doc)
	}
	if _, ok := doc["description_html"]; ok {
		t.Error("empty fields should be pruned")
	}

	if _, ok := document(context.Background(), testRecord("https://example.com/j/3", "Cook"))["run_id"]; ok {
		t.Error("run_id should be absent without a run in context")
	}
}
