package postgres

import (
	"context"
	"fmt"
	"time"

	"subwatch/pkg/domain"
	"subwatch/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	subdomainsTable = "subdomains"
)

// KnownSubdomains returns every hostname persisted for the domain as a set.
func (p *PgSQL) KnownSubdomains(ctx context.Context, dom string) (map[string]struct{}, error) {
	var hostnames []string
	if err := p.Builder.From(subdomainsTable).
		Select(goqu.I("hostname")).
		Where(goqu.I("domain").Eq(dom)).
		Executor().ScanValsContext(ctx, &hostnames); err != nil {
		return nil, fmt.Errorf("could not fetch known subdomains from pg: %w", err)
	}

	known := make(map[string]struct{}, len(hostnames))
	for _, hostname := range hostnames {
		known[hostname] = struct{}{}
	}

	return known, nil
}

// StoreSubdomains inserts the given records, skipping (domain, hostname)
// pairs that already exist, and returns the rows actually inserted.
func (p *PgSQL) StoreSubdomains(ctx context.Context, subs ...domain.Subdomain) ([]domain.Subdomain, error) {
	if len(subs) == 0 {
		return nil, nil
	}

	var result []PgSubdomain
	if err := p.Builder.Insert(subdomainsTable).
		Rows(domainSubdomainsToPg(subs)).
		OnConflict(goqu.DoNothing()).
		Returning(&PgSubdomain{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store subdomains into pg: %w", err)
	}

	return pgSubdomainsToDomain(result), nil
}

// TouchSubdomains refreshes last_seen for the given hostnames of a domain.
func (p *PgSQL) TouchSubdomains(ctx context.Context, dom string, hostnames []string) error {
	if len(hostnames) == 0 {
		return nil
	}

	if _, err := p.Builder.Update(subdomainsTable).
		Set(goqu.Record{
			"last_seen": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("domain").Eq(dom),
		goqu.I("hostname").In(hostnames),
	).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not touch subdomains in pg: %w", err)
	}

	return nil
}

// SubdomainsByDomain returns all records for a domain ordered by hostname.
func (p *PgSQL) SubdomainsByDomain(ctx context.Context, dom string) ([]domain.Subdomain, error) {
	var rows []PgSubdomain
	if err := p.Builder.From(subdomainsTable).
		Where(goqu.I("domain").Eq(dom)).
		Order(goqu.I("hostname").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch subdomains by domain from pg: %w", err)
	}

	return pgSubdomainsToDomain(rows), nil
}

// pgDomainSummary is the scan target for the per-domain aggregate query.
type pgDomainSummary struct {
	Domain     string    `db:"domain"`
	Subdomains int64     `db:"subdomains"`
	LastSeen   time.Time `db:"last_seen"`
}

// DomainSummaries returns per-domain row counts and the most recent
// observation time.
func (p *PgSQL) DomainSummaries(ctx context.Context) ([]storage.DomainSummary, error) {
	var rows []pgDomainSummary
	if err := p.Builder.From(subdomainsTable).
		Select(
			goqu.I("domain"),
			goqu.COUNT(goqu.Star()).As("subdomains"),
			goqu.MAX(goqu.I("last_seen")).As("last_seen"),
		).
		GroupBy(goqu.I("domain")).
		Order(goqu.I("domain").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch domain summaries from pg: %w", err)
	}

	out := make([]storage.DomainSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, storage.DomainSummary{
			Domain:     row.Domain,
			Subdomains: row.Subdomains,
			LastSeen:   row.LastSeen,
		})
	}

	return out, nil
}

// DeleteSubdomainsByDomain removes all records for one domain.
func (p *PgSQL) DeleteSubdomainsByDomain(ctx context.Context, dom string) (int64, error) {
	res, err := p.Builder.Delete(subdomainsTable).
		Where(goqu.I("domain").Eq(dom)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not delete subdomains by domain in pg: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not count deleted rows: %w", err)
	}

	return deleted, nil
}

// DeleteAllSubdomains removes every record in the store.
func (p *PgSQL) DeleteAllSubdomains(ctx context.Context) (int64, error) {
	res, err := p.Builder.Delete(subdomainsTable).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not delete subdomains in pg: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not count deleted rows: %w", err)
	}

	return deleted, nil
}
