package model

import "time"

// JobRecord is the unit handed to a BatchSink. Core fields are typed; Extra
// carries optional enrichment passthrough keyed by output name
// (listing_job_id, base_salary, skills, ...).
type JobRecord struct {
	Title           string
	Company         string
	Location        string
	Salary          any // string, or map with currency/unit/minValue/maxValue/value
	JobType         string
	DatePosted      string
	DescriptionHTML string
	DescriptionText string
	URL             string
	ScrapedAt       time.Time
	Extra           map[string]any
}

// Map renders the record as a pruned key/value tree. Absent keys mean
// "unknown"; no key ever maps to nil, "", an empty slice or an empty map.
func (r JobRecord) Map() map[string]any {
	m := map[string]any{
		"title":            r.Title,
		"company":          r.Company,
		"location":         r.Location,
		"salary":           r.Salary,
		"job_type":         r.JobType,
		"date_posted":      r.DatePosted,
		"description_html": r.DescriptionHTML,
		"description_text": r.DescriptionText,
		"url":              r.URL,
	}
	if !r.ScrapedAt.IsZero() {
		m["scrapedAt"] = r.ScrapedAt.UTC().Format(time.RFC3339)
	}
	for k, v := range r.Extra {
		if _, taken := m[k]; taken {
			continue
		}
		m[k] = v
	}

	pruned, ok := Prune(m)
	if !ok {
		return map[string]any{}
	}
	return pruned.(map[string]any)
}
