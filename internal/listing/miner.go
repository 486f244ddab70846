package listing

import (
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/textutil"
)

// iconSelector matches the decorative markup some boards put in front of
// location, salary and contract-type text.
const iconSelector = `i, svg, img, .icon, [class*="icon"]`

// Miner turns listing pages into ListingStubs.
type Miner struct {
	sel  Selectors
	base *url.URL
}

// NewMiner creates a miner resolving detail links against baseURL. Empty
// selector fields fall back to DefaultSelectors.
func NewMiner(baseURL string, sel Selectors) (*Miner, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Miner{sel: sel.WithDefaults(), base: base}, nil
}

// Rows parses markup and returns a lazy sequence of stubs, one per row that
// has a usable detail URL, in document order.
func (m *Miner) Rows(markup string) (iter.Seq[model.ListingStub], error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}
	return m.DocumentRows(doc), nil
}

// DocumentRows is Rows over an already parsed document.
func (m *Miner) DocumentRows(doc *goquery.Document) iter.Seq[model.ListingStub] {
	return func(yield func(model.ListingStub) bool) {
		doc.Find(m.sel.Row).EachWithBreak(func(_ int, row *goquery.Selection) bool {
			stub, ok := m.mineRow(row)
			if !ok {
				return true
			}
			return yield(stub)
		})
	}
}

func (m *Miner) mineRow(row *goquery.Selection) (model.ListingStub, bool) {
	link, ok := m.detailURL(row)
	if !ok {
		return model.ListingStub{}, false
	}

	stub := model.ListingStub{
		URL:       link,
		ListingID: firstAttr(row, m.sel.ID),
		Title:     fieldText(row, m.sel.Title),
		Company:   fieldText(row, m.sel.Company),
		Location:  fieldText(row, m.sel.Location),
		JobType:   fieldText(row, m.sel.JobType),
		Salary:    fieldText(row, m.sel.Salary),
		Summary:   fieldText(row, m.sel.Summary),
	}
	row.Find(m.sel.Bullets).Each(func(_ int, li *goquery.Selection) {
		if s := textutil.Clean(li.Text()); s != "" {
			stub.Bullets = append(stub.Bullets, s)
		}
	})
	return stub, true
}

// detailURL prefers an about-style path attribute over a plain hyperlink,
// falling back to the links when the attribute does not canonicalize.
// Link alternatives are tried in the order they are listed.
func (m *Miner) detailURL(row *goquery.Selection) (string, bool) {
	if about := firstAttr(row, m.sel.About); about != "" {
		if link, ok := Canonicalize(m.base, about); ok {
			return link, true
		}
	}
	for _, alt := range strings.Split(m.sel.Link, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		var link string
		row.Find(alt).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			v, _ := a.Attr("href")
			if u, ok := Canonicalize(m.base, v); ok {
				link = u
				return false
			}
			return true
		})
		if link != "" {
			return link, true
		}
	}
	return "", false
}

// firstAttr returns the first non-empty value of any of attrs, looking at the
// row itself before its descendants.
func firstAttr(row *goquery.Selection, attrs []string) string {
	for _, attr := range attrs {
		if v, ok := row.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := row.Find("[" + attr + "]").First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// fieldText returns the cleaned text of the first match of selector inside
// row, with icon markup removed.
func fieldText(row *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	field := row.Find(selector).First()
	if field.Length() == 0 {
		return ""
	}
	field = field.Clone()
	field.Find(iconSelector).Remove()
	return textutil.Clean(field.Text())
}
