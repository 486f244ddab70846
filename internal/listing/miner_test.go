package listing

import (
	"slices"
	"testing"

	"github.com/amishk599/jobsweep/internal/model"
)

const listingPage = `<html><body>
<div class="results">
  <article class="job-result" data-job-id="101" about="/job/101/backend-engineer?utm_source=list">
    <a class="company-link" href="/company/acme">Acme</a>
    <h2><a href="/ignored/101">Backend&nbsp;Engineer</a></h2>
    <span class="company">Acme &amp; Sons</span>
    <ul class="meta">
    <li class="location"><i class="fa fa-map-marker"></i> Leeds,
        West Yorkshire</li>
    <li class="salary"><svg class="icon-pound"></svg>£40,000 - £50,000</li>
    <li class="job-type"><span class="icon icon-clock"></span>Permanent</li>
    </ul>
    <p class="summary">  Build   services in Go. </p>
    <ul class="highlights"><li>Hybrid</li><li> </li><li>Pension</li></ul>
  </article>
  <article class="job-result">
    <a class="company-link" href="/company/beta">Beta</a>
    <h2><a href="https://EXAMPLE.com/job/202#apply">Data Analyst</a></h2>
  </article>
  <article class="job-result">
    <h2>No link here</h2>
  </article>
  <article class="job-result">
    <h3><a href="javascript:void(0)">Broken link</a></h3>
  </article>
</div>
</body></html>`

func collect(t *testing.T, m *Miner, markup string) []model.ListingStub {
	t.Helper()
	rows, err := m.Rows(markup)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	return slices.Collect(rows)
}

func TestRows_ExtractsFieldsAndDropsLinklessRows(t *testing.T) {
	m, err := NewMiner("https://example.com", Selectors{})
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}

	stubs := collect(t, m, listingPage)
	if len(stubs) != 2 {
		t.Fatalf("expected 2 stubs, got %d: %+v", len(stubs), stubs)
	}

	first := stubs[0]
	if first.URL != "https://example.com/job/101/backend-engineer" {
		t.Errorf("URL = %q, want about path resolved without tracking params", first.URL)
	}
	if first.ListingID != "101" {
		t.Errorf("ListingID = %q, want 101", first.ListingID)
	}
	if first.Title != "Backend Engineer" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Company != "Acme & Sons" {
		t.Errorf("Company = %q", first.Company)
	}
	if first.Location != "Leeds, West Yorkshire" {
		t.Errorf("Location = %q", first.Location)
	}
	if first.Salary != "£40,000 - £50,000" {
		t.Errorf("Salary = %q", first.Salary)
	}
	if first.JobType != "Permanent" {
		t.Errorf("JobType = %q", first.JobType)
	}
	if first.Summary != "Build services in Go." {
		t.Errorf("Summary = %q", first.Summary)
	}
	if !slices.Equal(first.Bullets, []string{"Hybrid", "Pension"}) {
		t.Errorf("Bullets = %q", first.Bullets)
	}

	second := stubs[1]
	if second.URL != "https://example.com/job/202" {
		t.Errorf("URL = %q, want title link canonicalized", second.URL)
	}
	if second.Title != "Data Analyst" {
		t.Errorf("Title = %q", second.Title)
	}
	if second.Location != "" || second.Salary != "" || second.Bullets != nil {
		t.Errorf("missing fields should stay empty: %+v", second)
	}
}

func TestRows_UnusableAboutFallsBackToLink(t *testing.T) {
	markup := `<div>
	  <article class="job-result" about="#"><h2><a href="/job/1">One</a></h2></article>
	  <article class="job-result" data-about="javascript:void(0)"><h2><a href="/job/2">Two</a></h2></article>
	  <article class="job-result" about="mailto:jobs@example.com"></article>
	</div>`
	m, _ := NewMiner("https://example.com", Selectors{})

	got := make([]string, 0, 2)
	for _, s := range collect(t, m, markup) {
		got = append(got, s.URL)
	}
	want := []string{"https://example.com/job/1", "https://example.com/job/2"}
	if !slices.Equal(got, want) {
		t.Errorf("URLs = %v, want %v", got, want)
	}
}

func TestRows_StopsWhenConsumerBreaks(t *testing.T) {
	m, _ := NewMiner("https://example.com", Selectors{})
	rows, err := m.Rows(listingPage)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	n := 0
	for range rows {
		n++
		break
	}
	if n != 1 {
		t.Errorf("consumed %d rows, want 1", n)
	}
}

func TestRows_CustomSelectors(t *testing.T) {
	markup := `<ul>
	  <li class="vacancy"><a class="go" href="/v/1">One</a><b>Remote</b></li>
	  <li class="vacancy"><a class="go" href="/v/2">Two</a><b>Paris</b></li>
	</ul>`
	m, _ := NewMiner("https://jobs.example.org/search", Selectors{
		Row:      "li.vacancy",
		Link:     "a.go",
		Title:    "a.go",
		Location: "b",
	})

	stubs := collect(t, m, markup)
	if len(stubs) != 2 {
		t.Fatalf("expected 2 stubs, got %d", len(stubs))
	}
	if stubs[1].URL != "https://jobs.example.org/v/2" || stubs[1].Title != "Two" || stubs[1].Location != "Paris" {
		t.Errorf("unexpected stub: %+v", stubs[1])
	}
}

func TestNewMiner_RejectsRelativeBase(t *testing.T) {
	if _, err := NewMiner("/relative", Selectors{}); err == nil {
		t.Fatal("expected error for relative base url")
	}
}
