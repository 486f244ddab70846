package paginate

import "github.com/amishk599/jobsweep/internal/model"

// DedupIndex maps canonical URLs to their first-seen stub and remembers
// insertion order, which becomes the processing order for detail fetches.
// It is written only during discovery, which is sequential.
type DedupIndex struct {
	order []string
	stubs map[string]model.ListingStub
}

// NewDedupIndex returns an empty index.
func NewDedupIndex() *DedupIndex {
	return &DedupIndex{stubs: make(map[string]model.ListingStub)}
}

// Add records stub under its URL. It returns false, leaving the index
// unchanged, when the URL is empty or already present.
func (d *DedupIndex) Add(stub model.ListingStub) bool {
	if stub.URL == "" || d.Has(stub.URL) {
		return false
	}
	d.stubs[stub.URL] = stub
	d.order = append(d.order, stub.URL)
	return true
}

// Has reports whether url has been seen.
func (d *DedupIndex) Has(url string) bool {
	_, ok := d.stubs[url]
	return ok
}

// Len returns the number of unique URLs.
func (d *DedupIndex) Len() int {
	return len(d.order)
}

// Stubs returns the first-seen stubs in insertion order.
func (d *DedupIndex) Stubs() []model.ListingStub {
	out := make([]model.ListingStub, 0, len(d.order))
	for _, u := range d.order {
		out = append(out, d.stubs[u])
	}
	return out
}
