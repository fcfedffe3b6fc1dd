package ctlog

import "strings"

// NormalizeHostname returns the canonical form of a hostname as stored and
// compared by the monitor:
//   - Trim surrounding whitespace
//   - Lower-case
//   - Strip a leading wildcard label ("*.")
//
// Certificates frequently carry the same name as both "example.com" and
// "*.example.com"; after normalization both map to the same stored value.
// An empty string is returned for inputs that normalize to nothing.
func NormalizeHostname(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.TrimPrefix(h, "*.")

	return h
}

// InScope reports whether a normalized hostname belongs to the watched
// domain: either the domain itself or any name ending in ".<domain>".
// Multi-SAN certificates can list names under unrelated domains; those are
// discarded.
func InScope(hostname, domain string) bool {
	if hostname == "" || domain == "" {
		return false
	}
	if hostname == domain {
		return true
	}

	return strings.HasSuffix(hostname, "."+domain)
}
