package ldjson

import (
	"strconv"
	"strings"
)

// Address holds the postal parts of a posting's job location.
type Address struct {
	Locality string
	Region   string
	Country  string
}

// String joins the non-empty parts with ", ".
func (a Address) String() string {
	var parts []string
	for _, p := range []string{a.Locality, a.Region, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// StructuredPosting is the job posting recovered from a detail page's
// metadata. Salary, employment type and identifier keep their raw shapes;
// callers normalize them.
type StructuredPosting struct {
	Title                string
	HiringOrganization   string
	DatePosted           string
	ValidThrough         string
	Description          string
	Address              Address
	BaseSalary           any
	EmploymentType       any
	Identifier           any
	Industry             string
	OccupationalCategory string
	JobLocationType      string

	// Extra holds auxiliary fields under their output names.
	Extra map[string]any
}

// auxiliary maps schema.org property names onto output keys. Earlier
// entries win when two properties share an output key.
var auxiliary = [][2]string{
	{"jobBenefits", "benefits"},
	{"benefits", "benefits"},
	{"qualifications", "qualifications"},
	{"responsibilities", "responsibilities"},
	{"skills", "skills"},
	{"educationRequirements", "education_requirements"},
	{"experienceRequirements", "experience_requirements"},
	{"workHours", "work_hours"},
}

// Decode maps a generic JobPosting object onto StructuredPosting.
func Decode(node map[string]any) StructuredPosting {
	p := StructuredPosting{
		Title:                firstText(node["title"], node["name"]),
		HiringOrganization:   Text(node["hiringOrganization"]),
		DatePosted:           Text(node["datePosted"]),
		ValidThrough:         Text(node["validThrough"]),
		Description:          Text(node["description"]),
		Address:              decodeLocation(node["jobLocation"]),
		BaseSalary:           node["baseSalary"],
		EmploymentType:       node["employmentType"],
		Identifier:           node["identifier"],
		Industry:             Text(node["industry"]),
		OccupationalCategory: Text(node["occupationalCategory"]),
		JobLocationType:      Text(node["jobLocationType"]),
	}

	for _, pair := range auxiliary {
		key, out := pair[0], pair[1]
		v, ok := node[key]
		if !ok || v == nil {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		if _, taken := p.Extra[out]; !taken {
			p.Extra[out] = v
		}
	}
	return p
}

// decodeLocation accepts a Place, a list of Places, or a bare string, and
// returns the first address with any content.
func decodeLocation(v any) Address {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if a := decodeLocation(item); a != (Address{}) {
				return a
			}
		}
	case map[string]any:
		if addr, ok := t["address"]; ok {
			return decodeAddress(addr)
		}
		return decodeAddress(t)
	case string:
		return Address{Locality: strings.TrimSpace(t)}
	}
	return Address{}
}

func decodeAddress(v any) Address {
	switch t := v.(type) {
	case map[string]any:
		return Address{
			Locality: Text(t["addressLocality"]),
			Region:   Text(t["addressRegion"]),
			Country:  Text(t["addressCountry"]),
		}
	case string:
		return Address{Locality: strings.TrimSpace(t)}
	case []any:
		for _, item := range t {
			if a := decodeAddress(item); a != (Address{}) {
				return a
			}
		}
	}
	return Address{}
}

// Text renders a scalar, a named object ({"name": ...}), or a list of
// either as a single trimmed string.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return firstText(t["name"], t["value"])
	case []any:
		var parts []string
		for _, item := range t {
			if s := Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func firstText(vs ...any) string {
	for _, v := range vs {
		if s := Text(v); s != "" {
			return s
		}
	}
	return ""
}
