// internal/app/system/query/query.go

// Package query serializes filter state into query strings. Only entries
// with a non-empty value (after trimming whitespace) make it into the
// string; everything else is dropped rather than sent as "key=".
package query

import (
	"net/url"
	"strings"
)

// Encode builds a "?a=1&b=2" query string from filters, skipping entries
// whose trimmed value is empty. Returns "" when nothing survives. Keys are
// emitted in sorted order, so the output is deterministic.
func Encode(filters map[string]string) string {
	values := url.Values{}
	for k, v := range filters {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return EncodeValues(values)
}

// EncodeValues is Encode over url.Values, applying the same trim-and-skip
// rule to every value.
func EncodeValues(values url.Values) string {
	cleaned := url.Values{}
	for k, vs := range values {
		for _, v := range vs {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			cleaned.Add(k, v)
		}
	}
	qs := cleaned.Encode()
	if qs == "" {
		return ""
	}
	return "?" + qs
}
