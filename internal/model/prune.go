package model

// Prune removes nil values, empty strings, and (recursively) slices and maps
// that end up empty. The second return is false when v itself is empty and
// should be dropped by the caller.
func Prune(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case *string:
		if t == nil || *t == "" {
			return nil, false
		}
		return *t, true
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if pv, ok := Prune(child); ok {
				out[k] = pv
			}
		}
		return out, len(out) > 0
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			if pv, ok := Prune(child); ok {
				out = append(out, pv)
			}
		}
		return out, len(out) > 0
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			if s != "" {
				out[k] = s
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}
