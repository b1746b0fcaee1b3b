package vectorstore

import "reflect"

// MatchesFilter reports whether metadata satisfies every key/value pair in
// filter (conjunctive AND). A key missing from metadata means no match.
// A nil or empty filter matches everything.
func MatchesFilter(metadata, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// FilterItems returns the items whose metadata matches the filter,
// preserving order.
func FilterItems(items []VectorItem, filter map[string]any) []VectorItem {
	if len(filter) == 0 {
		return items
	}
	var matched []VectorItem
	for _, it := range items {
		if MatchesFilter(it.Metadata, filter) {
			matched = append(matched, it)
		}
	}
	return matched
}

// valuesEqual compares two metadata values. Numeric values are compared by
// value across types, since JSON round-trips turn ints into float64.
func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok || bok {
		return aok && bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
