package textutil

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// DecodeEntities unescapes HTML entities (&amp;, &#39;, &nbsp; ...).
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// StripTags removes anything that looks like a markup tag.
func StripTags(s string) string {
	return htmlTagRegex.ReplaceAllString(s, " ")
}

// NormalizeSpace folds non-breaking spaces into regular spaces and collapses
// every whitespace run into a single space.
func NormalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Clean decodes entities and normalizes whitespace. Used on text already
// pulled out of a parsed document.
func Clean(s string) string {
	return NormalizeSpace(DecodeEntities(s))
}

// ExtractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles double-encoded descriptions;
// no-op on already-real HTML), strips all tags, then decodes once more for
// entities that were inside the markup, and collapses whitespace.
func ExtractText(content string) string {
	unescaped := DecodeEntities(content)
	plain := StripTags(unescaped)
	return NormalizeSpace(DecodeEntities(plain))
}
