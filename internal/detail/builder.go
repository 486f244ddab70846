// Package detail merges a listing stub with the structured posting of its
// detail page into the JobRecord handed to sinks.
//
// Precedence is field by field, first non-empty wins, and the listing row
// always goes first: discovery data is what the site showed the user, the
// embedded posting fills the gaps.
package detail

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobsweep/internal/ldjson"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/textutil"
)

// Build merges stub with the JobPosting embedded in markup. ok is false when
// neither source has a title; such records must not be emitted.
func Build(stub model.ListingStub, markup string, now time.Time) (model.JobRecord, bool) {
	rec, _, ok := BuildPage(stub, markup, now)
	return rec, ok
}

// BuildPage is Build that also reports whether a posting was found and
// merged. When merged is false the record holds listing data only.
func BuildPage(stub model.ListingStub, markup string, now time.Time) (rec model.JobRecord, merged, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		rec, ok = FromStub(stub, now)
		return rec, false, ok
	}
	return buildDocument(stub, doc, now)
}

// BuildDocument is Build over an already parsed document.
func BuildDocument(stub model.ListingStub, doc *goquery.Document, now time.Time) (model.JobRecord, bool) {
	rec, _, ok := buildDocument(stub, doc, now)
	return rec, ok
}

func buildDocument(stub model.ListingStub, doc *goquery.Document, now time.Time) (model.JobRecord, bool, bool) {
	node, found := ldjson.Find(doc, ldjson.TypeJobPosting)
	if !found {
		rec, ok := FromStub(stub, now)
		return rec, false, ok
	}
	rec, ok := Merge(stub, ldjson.Decode(node), now)
	return rec, true, ok
}

// Merge applies the precedence rules to a stub and a decoded posting.
func Merge(stub model.ListingStub, p ldjson.StructuredPosting, now time.Time) (model.JobRecord, bool) {
	employment := EmploymentType(p.EmploymentType)
	baseSalary := NormalizeSalary(p.BaseSalary)

	var salary any
	if stub.Salary != "" {
		salary = stub.Salary
	} else {
		salary = baseSalary
	}

	rec := model.JobRecord{
		Title:           firstNonEmpty(stub.Title, p.Title),
		Company:         firstNonEmpty(stub.Company, p.HiringOrganization),
		Location:        firstNonEmpty(stub.Location, p.Address.String()),
		Salary:          salary,
		JobType:         firstNonEmpty(stub.JobType, employment),
		DatePosted:      p.DatePosted,
		DescriptionHTML: p.Description,
		DescriptionText: textutil.ExtractText(p.Description),
		URL:             stub.URL,
		ScrapedAt:       now,
	}

	extra := stubExtra(stub)
	extra["job_id"] = NormalizeIdentifier(p.Identifier)
	extra["employment_type"] = employment
	extra["base_salary"] = baseSalary
	extra["hiring_organization"] = p.HiringOrganization
	extra["industry"] = p.Industry
	extra["sector"] = p.OccupationalCategory
	extra["job_nature"] = p.JobLocationType
	extra["valid_through"] = p.ValidThrough
	for k, v := range p.Extra {
		if _, taken := extra[k]; !taken {
			extra[k] = v
		}
	}
	rec.Extra = pruneExtra(extra)

	return rec, rec.Title != ""
}

// FromStub builds a record from listing data alone. Used when the detail
// page has no posting, when detail collection is off, and as the fallback
// when the detail fetch fails.
func FromStub(stub model.ListingStub, now time.Time) (model.JobRecord, bool) {
	rec := model.JobRecord{
		Title:     stub.Title,
		Company:   stub.Company,
		Location:  stub.Location,
		JobType:   stub.JobType,
		URL:       stub.URL,
		ScrapedAt: now,
		Extra:     pruneExtra(stubExtra(stub)),
	}
	if stub.Salary != "" {
		rec.Salary = stub.Salary
	}
	return rec, rec.Title != ""
}

func stubExtra(stub model.ListingStub) map[string]any {
	return map[string]any{
		"listing_job_id": stub.ListingID,
		"summary":        stub.Summary,
		"bullet_points":  stub.Bullets,
	}
}

func pruneExtra(extra map[string]any) map[string]any {
	pruned, ok := model.Prune(extra)
	if !ok {
		return nil
	}
	return pruned.(map[string]any)
}
