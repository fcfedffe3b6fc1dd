package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SubdomainID uniquely identifies a persisted subdomain record.
// It wraps uuid.UUID to provide type safety at the domain layer.
type SubdomainID uuid.UUID

// Subdomain is one persisted (domain, hostname) observation. Records are
// append-only: once a hostname has been seen for a domain it is never
// re-inserted or re-alerted, only its LastSeen timestamp is refreshed.
type Subdomain struct {
	// ID is the unique identifier of the record.
	ID SubdomainID `json:"id"`

	// Domain is the watched domain this hostname belongs to.
	Domain string `json:"domain"`
	// Hostname is the normalized hostname (lower-cased, trimmed, wildcard
	// prefix stripped).
	Hostname string `json:"hostname"`

	// FirstSeen is when the hostname was first observed for the domain.
	FirstSeen time.Time `json:"firstSeen"`
	// LastSeen is when the hostname was most recently observed.
	LastSeen time.Time `json:"lastSeen"`
}

// Batch groups the hostnames newly observed for a domain during one sweep.
// It is ephemeral: consumed exactly once by the notifier and then discarded.
type Batch struct {
	// Domain is the watched domain the hostnames belong to.
	Domain string
	// Hostnames are the normalized hostnames not previously known for the
	// domain.
	Hostnames []string
	// DetectedAt is when the sweep observed the hostnames.
	DetectedAt time.Time
}

// Empty reports whether the batch carries no hostnames.
func (b Batch) Empty() bool { return len(b.Hostnames) == 0 }

// Sorted returns the batch hostnames in lexicographic order. The underlying
// slice is not modified.
func (b Batch) Sorted() []string {
	out := make([]string, len(b.Hostnames))
	copy(out, b.Hostnames)
	sort.Strings(out)

	return out
}
