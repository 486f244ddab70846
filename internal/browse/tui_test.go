package browse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/model"
)

type stubFetcher struct {
	pages map[string]string
	err   error
}

func (f stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

var fixedNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func testStubs() []model.ListingStub {
	return []model.ListingStub{
		{URL: "https://jobs.example.com/job/1", Title: "Sous Chef", Company: "Bistro", Location: "York"},
		{URL: "https://jobs.example.com/job/2", Title: "Porter", Salary: "£11/hour"},
	}
}

func sized(t *testing.T, m browseModel) browseModel {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(browseModel)
}

func TestRecordFields(t *testing.T) {
	rec := model.JobRecord{
		Title:    "Sous Chef",
		Location: "York",
		Salary:   map[string]any{"currency": "GBP", "minValue": 28000.0, "maxValue": 32000.0, "unit": "YEAR"},
		URL:      "https://jobs.example.com/job/1",
		Extra: map[string]any{
			"skills":          []any{"Knife work", "Pastry"},
			"employment_type": "FULL_TIME",
			"work_hours":      "40",
		},
	}

	got := recordFields(rec)
	var labels []string
	for _, f := range got {
		labels = append(labels, f.label)
	}
	want := "Title,Location,Salary,URL,Skills,Work Hours"
	if strings.Join(labels, ",") != want {
		t.Errorf("labels = %v, want %s", labels, want)
	}
	if got[2].value != "GBP 28000 - 32000 / year" {
		t.Errorf("salary = %q", got[2].value)
	}
	if got[4].value != "Knife work; Pastry" {
		t.Errorf("skills = %q", got[4].value)
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		in   map[string]any
		want string
	}{
		{map[string]any{"value": 50000.0, "currency": "EUR"}, "EUR 50000"},
		{map[string]any{"minValue": 12.5, "unit": "HOUR"}, "from 12.5 / hour"},
		{map[string]any{"maxValue": 90000.0}, "up to 90000"},
	}
	for _, tc := range tests {
		if got := formatSalary(tc.in); got != tc.want {
			t.Errorf("formatSalary(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBrowse_OpenFetchesDetail(t *testing.T) {
	fetcher := stubFetcher{pages: map[string]string{
		"https://jobs.example.com/job/2": `<script type="application/ld+json">{"@type":"JobPosting","title":"Night Porter","description":"<p>Nights only</p>"}</script>`,
	}}
	m := sized(t, newBrowseModel("chefs", testStubs(), fetcher))
	m.now = func() time.Time { return fixedNow }

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(browseModel)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if m.view != viewDetail || !m.detailLoading || cmd == nil {
		t.Fatalf("expected detail view with a pending fetch")
	}

	msg := cmd()
	next, _ = m.Update(msg)
	m = next.(browseModel)

	if m.detailLoading {
		t.Error("loading flag should clear once the record arrives")
	}
	rec := m.current.record
	if rec.Title != "Porter" || rec.DescriptionText != "Nights only" || rec.Salary != "£11/hour" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if _, cached := m.records["https://jobs.example.com/job/2"]; !cached {
		t.Error("record should be cached")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(browseModel)
	if !m.showDescription || !strings.Contains(m.renderDetail(), "Nights only") {
		t.Error("r should reveal the description")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(browseModel)
	if m.view != viewList {
		t.Error("esc should return to the list")
	}

	// Reopening uses the cache.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("cached record should not be fetched again")
	}
}

func TestBrowse_FetchFailureShowsListingData(t *testing.T) {
	m := sized(t, newBrowseModel("chefs", testStubs(), stubFetcher{err: errors.New("HTTP 500")}))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	next, _ = m.Update(cmd())
	m = next.(browseModel)

	if m.current.err == nil || m.current.record.Title != "Sous Chef" {
		t.Errorf("expected stub-only record with error, got %+v", m.current)
	}
	if !strings.Contains(m.renderDetail(), "detail fetch failed") {
		t.Error("detail view should mention the failed fetch")
	}
}

func TestSearchLabel(t *testing.T) {
	if got := searchLabel(configSearch("a", "go", "Leeds", nil)); got != "a (go in Leeds)" {
		t.Errorf("label = %q", got)
	}
	if got := searchLabel(configSearch("b", "", "", []string{"/x", "/y"})); got != "b (2 start urls)" {
		t.Errorf("label = %q", got)
	}
}

func configSearch(name, keyword, location string, startURLs []string) config.SearchConfig {
	return config.SearchConfig{Name: name, Keyword: keyword, Location: location, StartURLs: startURLs}
}
