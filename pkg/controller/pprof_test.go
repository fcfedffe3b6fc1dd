package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"subwatch/pkg/controller"

	"github.com/stretchr/testify/require"
)

func TestPprofMux_ServesIndex(t *testing.T) {
	mux := controller.PprofMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "profiles")
}
