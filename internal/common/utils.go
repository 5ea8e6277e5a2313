package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// LastFields returns the last n whitespace-separated fields of s, or nil when
// s has fewer than n.
func LastFields(s string, n int) []string {
	f := strings.Fields(s)
	if n <= 0 || len(f) < n {
		return nil
	}
	return f[len(f)-n:]
}
