// internal/app/system/inputval/inputval.go

// Package inputval validates form input before it goes anywhere near the
// network. A failed validation is collected per field and blocks the
// submit; it never produces a request.
package inputval

import (
	"sort"
	"strings"
)

// ValidationErrors maps field name to a user-readable message. It
// implements error so flows can return it directly from a submit.
type ValidationErrors map[string]string

// Ok reports whether no field failed.
func (e ValidationErrors) Ok() bool { return len(e) == 0 }

// Error joins the messages in field order.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Require records msg under field when value is empty after trimming.
func (e ValidationErrors) Require(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		e[field] = msg
	}
}

// MinLen records msg under field when value is shorter than n. Empty
// values are left to Require.
func (e ValidationErrors) MinLen(field, value string, n int, msg string) {
	if value != "" && len(value) < n {
		e[field] = msg
	}
}

// Match records msg under field when a and b differ (password confirm).
func (e ValidationErrors) Match(field, a, b, msg string) {
	if a != b {
		e[field] = msg
	}
}

// Email records msg under field when value is not a plausible address.
// Empty values are left to Require.
func (e ValidationErrors) Email(field, value, msg string) {
	if value != "" && !IsValidEmail(value) {
		e[field] = msg
	}
}

// IsValidEmail reports whether s looks like a bare email address.
// Single-label domains are allowed (useful for dev backends), display-name
// forms ("Name <a@b.c>"), whitespace, and dotted edge cases are not.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	if strings.Contains(domain, "@") {
		return false
	}
	if !validDotRuns(local) || !validDotRuns(domain) {
		return false
	}
	for _, r := range local {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.!#$%&'*+/=?^_`{|}~-", r) {
			return false
		}
	}
	for _, label := range strings.Split(domain, ".") {
		for _, r := range label {
			if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-", r) {
				return false
			}
		}
	}
	return true
}

// validDotRuns rejects leading, trailing, and consecutive dots.
func validDotRuns(s string) bool {
	return !strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}
