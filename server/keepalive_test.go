package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestAlive(t *testing.T) {
	code, body := get(t, NewMux(fakeHealth{}), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bot Alive", body)

	code, _ = get(t, NewMux(fakeHealth{}), "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	code, _ := get(t, NewMux(fakeHealth{}), "/healthz")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, NewMux(fakeHealth{err: errors.New("no reachable servers")}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestMetricsEndpoint(t *testing.T) {
	code, body := get(t, NewMux(fakeHealth{}), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
}
