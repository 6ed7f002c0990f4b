// Package strings holds small slice and path helpers
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Prefix normalises a route prefix to one leading slash and no trailing one.
// Blank input and bare slashes give "".
func Prefix(s string) string {
	s = std.Trim(std.TrimSpace(s), "/ ")
	if s == "" {
		return ""
	}
	return "/" + s
}
