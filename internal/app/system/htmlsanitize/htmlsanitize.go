// Package htmlsanitize strips dangerous markup from user-supplied rich text
// (group and class descriptions) before it is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// Strict strips all markup entirely, for plain-text fields like names.
var strict = bluemonday.StrictPolicy()

// SanitizeStrict returns s with every tag removed.
func SanitizeStrict(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}
