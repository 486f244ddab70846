package model

import (
	"reflect"
	"testing"
	"time"
)

func TestPrune(t *testing.T) {
	empty := ""
	in := map[string]any{
		"keep":    "x",
		"blank":   "",
		"nil":     nil,
		"ptr":     &empty,
		"number":  0.0,
		"list":    []any{"", nil, "a", map[string]any{}},
		"strings": []string{"", ""},
		"nested":  map[string]any{"inner": map[string]any{"gone": ""}},
		"labels":  map[string]string{"a": "", "b": "B"},
	}

	got, ok := Prune(in)
	if !ok {
		t.Fatal("expected non-empty result")
	}
	want := map[string]any{
		"keep":   "x",
		"number": 0.0,
		"list":   []any{"a"},
		"labels": map[string]string{"b": "B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Prune() =\n %#v\nwant\n %#v", got, want)
	}

	if _, ok := Prune(map[string]any{"a": []any{nil}}); ok {
		t.Error("map holding only empty values should be dropped")
	}
}

func TestJobRecordMap(t *testing.T) {
	rec := JobRecord{
		Title:     "Welder",
		Salary:    map[string]any{"currency": "GBP", "value": nil},
		URL:       "https://example.com/j/1",
		ScrapedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)),
		Extra: map[string]any{
			"title":  "ignored",
			"skills": []any{"MIG"},
			"empty":  "",
		},
	}

	want := map[string]any{
		"title":     "Welder",
		"salary":    map[string]any{"currency": "GBP"},
		"url":       "https://example.com/j/1",
		"scrapedAt": "2026-01-02T02:04:05Z",
		"skills":    []any{"MIG"},
	}
	if got := rec.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() =\n %#v\nwant\n %#v", got, want)
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{URL: "https://example.com", StatusCode: 503, RetryAfter: 2 * time.Second}
	if err.Error() == "" {
		t.Error("expected message")
	}
}
