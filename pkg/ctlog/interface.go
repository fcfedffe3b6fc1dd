// Package ctlog defines the contract for certificate-transparency subdomain
// sources and the hostname normalization rules shared by sources and the
// monitor.
package ctlog

import "context"

// Source is the abstraction for certificate-transparency log aggregators.
// Implementations return the full set of subdomains currently visible for a
// watched domain, not a delta.
//
//go:generate mockgen -package mockctlog -source=interface.go -destination=mock/mockctlog.go *
type Source interface {
	// Subdomains queries the source for hostnames under the given domain and
	// returns the deduplicated, normalized set.
	Subdomains(ctx context.Context, domain string) (map[string]struct{}, error)
}
