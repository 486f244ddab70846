package detail

import (
	"strings"

	"github.com/amishk599/jobsweep/internal/ldjson"
	"github.com/amishk599/jobsweep/internal/model"
)

// NormalizeSalary flattens a schema.org baseSalary. A string passes through
// trimmed. A MonetaryAmount decomposes into currency, unit, minValue,
// maxValue and value, each present only when the source carries it. A bare
// number becomes {value}. Returns nil when nothing usable remains.
func NormalizeSalary(v any) any {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
		return nil
	case float64:
		return map[string]any{"value": t}
	case []any:
		for _, item := range t {
			if s := NormalizeSalary(item); s != nil {
				return s
			}
		}
		return nil
	case map[string]any:
		out := map[string]any{
			"currency": ldjson.Text(first(t["currency"], t["salaryCurrency"])),
			"unit":     ldjson.Text(t["unitText"]),
			"minValue": t["minValue"],
			"maxValue": t["maxValue"],
		}
		switch inner := t["value"].(type) {
		case map[string]any:
			if u := ldjson.Text(inner["unitText"]); u != "" {
				out["unit"] = u
			}
			if out["minValue"] == nil {
				out["minValue"] = inner["minValue"]
			}
			if out["maxValue"] == nil {
				out["maxValue"] = inner["maxValue"]
			}
			out["value"] = inner["value"]
		default:
			out["value"] = inner
		}
		pruned, ok := model.Prune(out)
		if !ok {
			return nil
		}
		return pruned
	}
	return nil
}

// NormalizeIdentifier reduces a schema.org identifier (string, number, or
// PropertyValue with value / @id) to a single string.
func NormalizeIdentifier(v any) string {
	switch t := v.(type) {
	case map[string]any:
		if s := ldjson.Text(t["value"]); s != "" {
			return s
		}
		return ldjson.Text(t["@id"])
	case []any:
		for _, item := range t {
			if s := NormalizeIdentifier(item); s != "" {
				return s
			}
		}
		return ""
	default:
		return ldjson.Text(v)
	}
}

// EmploymentType renders a string or list employment type, lists joined
// with ", ".
func EmploymentType(v any) string {
	return ldjson.Text(v)
}

func first(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
