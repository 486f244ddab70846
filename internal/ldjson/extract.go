package ldjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TypeJobPosting is the schema.org type tag of an embedded job posting.
const TypeJobPosting = "JobPosting"

const blockSelector = `script[type="application/ld+json"]`

// ErrUnparseable is returned by Parse when a block is not valid JSON even
// after sanitizing.
var ErrUnparseable = errors.New("ldjson: unparseable block")

// Blocks returns the raw text of every JSON-LD script element in document order.
func Blocks(doc *goquery.Document) []string {
	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		raw := unwrap(s.Text())
		if raw != "" {
			blocks = append(blocks, raw)
		}
	})
	return blocks
}

// Parse decodes one block into a generic value tree. A block that fails to
// decode is sanitized and retried exactly once.
func Parse(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, nil
	}
	if err := json.Unmarshal([]byte(Sanitize(raw)), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return v, nil
}

// Candidates flattens a parsed block into the objects it carries: a single
// object, an array of objects, or the members of an @graph container.
func Candidates(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case map[string]any:
		graph, hasGraph := t["@graph"]
		if _, typed := t["@type"]; typed || !hasGraph {
			out = append(out, t)
		}
		if hasGraph {
			out = append(out, Candidates(graph)...)
		}
	case []any:
		for _, item := range t {
			out = append(out, Candidates(item)...)
		}
	}
	return out
}

// HasType reports whether node's @type equals typ or, when @type is a list,
// contains it.
func HasType(node map[string]any, typ string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == typ
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == typ {
				return true
			}
		}
	}
	return false
}

// Find returns the first object of the given type across all JSON-LD blocks
// of doc. Unparseable blocks are skipped.
func Find(doc *goquery.Document, typ string) (map[string]any, bool) {
	for _, raw := range Blocks(doc) {
		v, err := Parse(raw)
		if err != nil {
			continue
		}
		for _, c := range Candidates(v) {
			if HasType(c, typ) {
				return c, true
			}
		}
	}
	return nil, false
}

// FindInHTML parses markup and runs Find over it.
func FindInHTML(markup string, typ string) (map[string]any, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}
	return Find(doc, typ)
}

// unwrap trims whitespace and the comment/CDATA guards some sites wrap
// around script bodies.
func unwrap(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, guard := range [][2]string{
		{"<!--", "-->"},
		{"//<![CDATA[", "//]]>"},
		{"<![CDATA[", "]]>"},
	} {
		if strings.HasPrefix(raw, guard[0]) && strings.HasSuffix(raw, guard[1]) {
			raw = strings.TrimSpace(raw[len(guard[0]) : len(raw)-len(guard[1])])
		}
	}
	return raw
}
