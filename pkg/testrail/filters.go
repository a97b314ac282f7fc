package testrail

import (
	"fmt"
	"strings"
)

// Filter is a single query parameter appended to a list call.
type Filter struct {
	Key   string
	Value any
}

// Filters is an ordered filter set. Entries are applied in insertion order.
type Filters []Filter

// With returns a copy of f with key=value appended.
func (f Filters) With(key string, value any) Filters {
	out := make(Filters, len(f), len(f)+1)
	copy(out, f)
	return append(out, Filter{Key: key, Value: value})
}

// ParseFilters builds a filter set from "key=value" pairs, keeping their order.
func ParseFilters(pairs []string) (Filters, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(Filters, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q (expected key=value)", pair)
		}
		out = append(out, Filter{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

// applyFilters appends every filter as "&key=value". The API is addressed as
// index.php?/api/v2/<path>, so the query string is already open and the first
// filter takes '&' as well. Keys and values are written verbatim.
func applyFilters(path string, filters Filters) string {
	if len(filters) == 0 {
		return path
	}
	var b strings.Builder
	b.WriteString(path)
	for _, f := range filters {
		if f.Key == "" {
			continue
		}
		b.WriteByte('&')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(f.Value))
	}
	return b.String()
}
