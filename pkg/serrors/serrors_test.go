package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"subwatch/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestWith_MatchesKind(t *testing.T) {
	err := serrors.With(serrors.ErrFetch, "crt.sh unreachable for %s", "example.com")

	require.ErrorIs(t, err, serrors.ErrFetch)
	require.NotErrorIs(t, err, serrors.ErrStore)
	require.Equal(t, "crt.sh unreachable for example.com", err.Error())
}

func TestWrap_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := serrors.Wrap(serrors.ErrDelivery, cause, "telegram send failed")

	require.ErrorIs(t, err, serrors.ErrDelivery)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "telegram send failed: connection refused", err.Error())
}

func TestWrap_SurvivesFmtWrapping(t *testing.T) {
	inner := serrors.With(serrors.ErrRateLimited, "slow down")
	outer := fmt.Errorf("could not fetch: %w", inner)

	require.ErrorIs(t, outer, serrors.ErrRateLimited)
}

func TestError_KindAndMessage(t *testing.T) {
	err := serrors.With(serrors.ErrConfig, "no domains configured")

	require.Equal(t, serrors.ErrConfig, err.Kind())
	require.Equal(t, "no domains configured", err.Message())
}

func TestError_NestedKinds(t *testing.T) {
	inner := serrors.With(serrors.ErrRateLimited, "429 from upstream")
	outer := serrors.Wrap(serrors.ErrFetch, inner, "fetch failed")

	require.ErrorIs(t, outer, serrors.ErrFetch)
	require.ErrorIs(t, outer, serrors.ErrRateLimited)
}
