package ctlog_test

import (
	"testing"

	"subwatch/pkg/ctlog"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHostname(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "api.example.com", "api.example.com"},
		{"upper case", "EXAMPLE.COM", "example.com"},
		{"mixed case wildcard", "*.Example.com", "example.com"},
		{"trailing whitespace", "example.com ", "example.com"},
		{"leading whitespace", "  www.example.com", "www.example.com"},
		{"wildcard only stripped once", "*.*.example.com", "*.example.com"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ctlog.NormalizeHostname(tc.in))
		})
	}
}

// All wildcard, case and whitespace variants of the same name must converge
// on one stored value.
func TestNormalizeHostname_VariantsConverge(t *testing.T) {
	variants := []string{"*.Example.com", "example.com ", "EXAMPLE.COM", " *.EXAMPLE.com "}

	for _, v := range variants {
		require.Equal(t, "example.com", ctlog.NormalizeHostname(v))
	}
}

func TestInScope(t *testing.T) {
	cases := []struct {
		hostname string
		domain   string
		want     bool
	}{
		{"example.com", "example.com", true},
		{"api.example.com", "example.com", true},
		{"deep.api.example.com", "example.com", true},
		{"evil-example.com", "example.com", false},
		{"example.com.attacker.net", "example.com", false},
		{"", "example.com", false},
		{"api.example.com", "", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ctlog.InScope(tc.hostname, tc.domain),
			"hostname=%q domain=%q", tc.hostname, tc.domain)
	}
}
