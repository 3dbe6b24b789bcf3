// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans untrusted HTML before it is stored or
// rendered. Free-text fields (program descriptions, eligibility
// criteria, special needs notes) accept rich text from users and from
// the backend; everything passes through here first.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows user-generated rich text: formatting, lists, tables,
// images, and links, with scripts, event handlers, and unknown
// protocols removed.
var policy = buildPolicy()

// strict strips all markup, leaving text content only.
var strict = bluemonday.StrictPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	p.AllowStyles("width", "height", "text-align").OnElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Sanitize removes dangerous content from HTML and returns the result.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes s and returns it as template.HTML for
// direct rendering.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// Strip removes all HTML tags, returning text content only.
func Strip(s string) string {
	return strict.Sanitize(s)
}

// IsPlainText reports whether s contains no HTML tags. A lone < or >
// (as in "5 < 10") does not count as markup.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') < 0
}

// PlainTextToHTML escapes s and wraps it in a paragraph, converting
// newlines to <br>. Returns "" for empty input.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders s safely: plain text is escaped and
// paragraph-wrapped, HTML is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
