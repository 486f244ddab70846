package listing

// Selectors describes where the fields of a listing row live. Every field
// except the attribute lists is a CSS selector evaluated inside the row.
type Selectors struct {
	Row      string   // repeating row container
	Link     string   // plain hyperlink to the detail page
	About    []string // attributes carrying the detail path; checked before Link
	ID       []string // attributes carrying the listing-local identifier
	Title    string
	Company  string
	Location string
	JobType  string
	Salary   string
	Summary  string
	Bullets  string
}

// DefaultSelectors covers the markup used by most server-rendered job boards.
func DefaultSelectors() Selectors {
	return Selectors{
		Row:      "article.job-result, article[data-job-id], div.job-result, li.job-result",
		Link:     "h2 a[href], h3 a[href], a.job-title[href], a[href]",
		About:    []string{"about", "data-about"},
		ID:       []string{"data-job-id", "data-id"},
		Title:    "h2, h3, .job-title",
		Company:  ".company, .job-company, .recruiter",
		Location: ".location, .job-location",
		JobType:  ".job-type, .contract-type",
		Salary:   ".salary, .job-salary",
		Summary:  ".summary, .job-summary, .description",
		Bullets:  ".highlights li, .job-highlights li, ul.bullets li",
	}
}

// WithDefaults fills every empty field of s from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.Row, d.Row)
	fill(&s.Link, d.Link)
	fill(&s.Title, d.Title)
	fill(&s.Company, d.Company)
	fill(&s.Location, d.Location)
	fill(&s.JobType, d.JobType)
	fill(&s.Salary, d.Salary)
	fill(&s.Summary, d.Summary)
	fill(&s.Bullets, d.Bullets)
	if len(s.About) == 0 {
		s.About = d.About
	}
	if len(s.ID) == 0 {
		s.ID = d.ID
	}
	return s
}
