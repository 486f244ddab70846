package model

// ListingStub is the lightweight record mined from one row of a listings page,
// before any detail fetch. URL is the canonical detail URL and the dedup key.
type ListingStub struct {
	URL       string
	ListingID string
	Title     string
	Company   string // only when the row carries one
	Location  string
	Salary    string
	JobType   string
	Summary   string
	Bullets   []string
}
