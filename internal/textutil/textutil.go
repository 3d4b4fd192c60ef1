// Package textutil provides plain-text helpers for flow-layout documents.
package textutil

import "regexp"

// tagPattern matches HTML tags non-greedily, including unknown ones.
var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes HTML tags from a string, leaving the text content.
// It is a display helper for flow-layout paragraphs, not a sanitizer:
// entities are kept as-is and malformed markup is left untouched.
func StripTags(value string) string {
	return tagPattern.ReplaceAllString(value, "")
}
