package postgres

import (
	"time"

	"subwatch/pkg/domain"

	"github.com/google/uuid"
)

// PgSubdomain mirrors one row of the subdomains table.
type PgSubdomain struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Domain   string `db:"domain"`
	Hostname string `db:"hostname"`

	FirstSeen time.Time `db:"first_seen" goqu:"skipinsert"`
	LastSeen  time.Time `db:"last_seen"  goqu:"skipinsert"`
}

func (p *PgSubdomain) ToDomain() domain.Subdomain {
	return domain.Subdomain{
		ID:        domain.SubdomainID(p.ID),
		Domain:    p.Domain,
		Hostname:  p.Hostname,
		FirstSeen: p.FirstSeen,
		LastSeen:  p.LastSeen,
	}
}

func (p *PgSubdomain) FromDomain(sub domain.Subdomain) {
	*p = PgSubdomain{
		ID:        uuid.UUID(sub.ID),
		Domain:    sub.Domain,
		Hostname:  sub.Hostname,
		FirstSeen: sub.FirstSeen,
		LastSeen:  sub.LastSeen,
	}
}

func domainSubdomainsToPg(subs []domain.Subdomain) []PgSubdomain {
	out := make([]PgSubdomain, len(subs))
	for i := range out {
		out[i].FromDomain(subs[i])
	}

	return out
}

func pgSubdomainsToDomain(subs []PgSubdomain) []domain.Subdomain {
	out := make([]domain.Subdomain, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub.ToDomain())
	}

	return out
}
