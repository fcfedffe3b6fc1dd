package storage

import (
	"context"
	"time"

	"subwatch/pkg/domain"
)

// DomainSummary aggregates the persisted state for one watched domain.
type DomainSummary struct {
	// Domain is the watched domain.
	Domain string
	// Subdomains is the number of hostnames persisted for the domain.
	Subdomains int64
	// LastSeen is the most recent observation time across the domain's
	// hostnames; zero when the domain has no rows.
	LastSeen time.Time
}

// SubdomainStorage defines the durable per-domain subdomain set. The store
// only grows: records are never deleted by the monitor (only by the operator
// reset command) and (domain, hostname) is unique.
type SubdomainStorage interface {
	// KnownSubdomains returns every hostname previously persisted for the
	// domain, as a set. The set is empty when the domain has never been seen.
	KnownSubdomains(ctx context.Context, domain string) (map[string]struct{}, error)
	// StoreSubdomains appends records for hostnames not already present and
	// returns the rows actually inserted. Calling it twice with overlapping
	// hostnames inserts no duplicates and returns no error. Writes for
	// different domains are safe to issue concurrently.
	StoreSubdomains(ctx context.Context, subs ...domain.Subdomain) ([]domain.Subdomain, error)
	// TouchSubdomains refreshes last_seen for the given hostnames of a
	// domain. Unknown hostnames are ignored.
	TouchSubdomains(ctx context.Context, dom string, hostnames []string) error
	// SubdomainsByDomain returns all persisted records for a domain ordered
	// by hostname.
	SubdomainsByDomain(ctx context.Context, dom string) ([]domain.Subdomain, error)
	// DomainSummaries returns per-domain aggregates over the whole store.
	DomainSummaries(ctx context.Context) ([]DomainSummary, error)
	// DeleteSubdomainsByDomain removes all records for one domain and returns
	// the number of rows deleted.
	DeleteSubdomainsByDomain(ctx context.Context, dom string) (int64, error)
	// DeleteAllSubdomains removes every record and returns the number of
	// rows deleted.
	DeleteAllSubdomains(ctx context.Context) (int64, error)
}
