package postgres_test

import (
	"context"
	"testing"

	"subwatch/pkg/domain"

	"github.com/stretchr/testify/require"
)

func sub(dom, hostname string) domain.Subdomain {
	return domain.Subdomain{Domain: dom, Hostname: hostname}
}

func TestPgSQL_KnownSubdomains_EmptyForUnseenDomain(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	known, err := pg.KnownSubdomains(context.Background(), "never-seen.test")
	require.NoError(t, err)
	require.Empty(t, known)
}

func TestPgSQL_StoreSubdomains_RoundTrip(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	inserted, err := pg.StoreSubdomains(ctx,
		sub("example.com", "api.example.com"),
		sub("example.com", "www.example.com"))
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	for _, s := range inserted {
		require.NotZero(t, s.FirstSeen)
		require.NotZero(t, s.LastSeen)
	}

	known, err := pg.KnownSubdomains(ctx, "example.com")
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{
		"api.example.com": {},
		"www.example.com": {},
	}, known)
}

// Storing the same hostnames twice must insert nothing new and return no
// error.
func TestPgSQL_StoreSubdomains_Idempotent(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first, err := pg.StoreSubdomains(ctx, sub("example.com", "api.example.com"))
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := pg.StoreSubdomains(ctx,
		sub("example.com", "api.example.com"),
		sub("example.com", "mail.example.com"))
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "mail.example.com", second[0].Hostname)

	known, err := pg.KnownSubdomains(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, known, 2)
}

// The same hostname under two different domains is two independent records.
func TestPgSQL_StoreSubdomains_DomainsAreIndependent(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.StoreSubdomains(ctx,
		sub("a.test", "shared.a.test"),
		sub("b.test", "shared.a.test"))
	require.NoError(t, err)

	knownA, err := pg.KnownSubdomains(ctx, "a.test")
	require.NoError(t, err)
	require.Len(t, knownA, 1)

	knownB, err := pg.KnownSubdomains(ctx, "b.test")
	require.NoError(t, err)
	require.Len(t, knownB, 1)
}

func TestPgSQL_StoreSubdomains_EmptyInput(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	inserted, err := pg.StoreSubdomains(context.Background())
	require.NoError(t, err)
	require.Nil(t, inserted)
}

func TestPgSQL_TouchSubdomains_RefreshesLastSeen(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	inserted, err := pg.StoreSubdomains(ctx, sub("example.com", "api.example.com"))
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	require.NoError(t, pg.TouchSubdomains(ctx, "example.com", []string{"api.example.com"}))

	rows, err := pg.SubdomainsByDomain(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].LastSeen.Before(inserted[0].LastSeen))

	// unknown hostnames are ignored
	require.NoError(t, pg.TouchSubdomains(ctx, "example.com", []string{"ghost.example.com"}))
	// empty input is a no-op
	require.NoError(t, pg.TouchSubdomains(ctx, "example.com", nil))
}

func TestPgSQL_SubdomainsByDomain_OrderedByHostname(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.StoreSubdomains(ctx,
		sub("example.com", "www.example.com"),
		sub("example.com", "api.example.com"),
		sub("other.test", "x.other.test"))
	require.NoError(t, err)

	rows, err := pg.SubdomainsByDomain(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "api.example.com", rows[0].Hostname)
	require.Equal(t, "www.example.com", rows[1].Hostname)
}

func TestPgSQL_DomainSummaries(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.StoreSubdomains(ctx,
		sub("a.test", "x.a.test"),
		sub("b.test", "y.b.test"),
		sub("b.test", "z.b.test"))
	require.NoError(t, err)

	summaries, err := pg.DomainSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "a.test", summaries[0].Domain)
	require.EqualValues(t, 1, summaries[0].Subdomains)
	require.Equal(t, "b.test", summaries[1].Domain)
	require.EqualValues(t, 2, summaries[1].Subdomains)
	require.False(t, summaries[1].LastSeen.IsZero())
}

func TestPgSQL_DeleteSubdomains(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.StoreSubdomains(ctx,
		sub("a.test", "x.a.test"),
		sub("b.test", "y.b.test"),
		sub("b.test", "z.b.test"))
	require.NoError(t, err)

	deleted, err := pg.DeleteSubdomainsByDomain(ctx, "b.test")
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	known, err := pg.KnownSubdomains(ctx, "a.test")
	require.NoError(t, err)
	require.Len(t, known, 1)

	deleted, err = pg.DeleteAllSubdomains(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}
