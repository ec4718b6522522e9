package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (c *stubChecker) HealthCheck(context.Context) error { return c.err }

func newTestServer(db DatabaseChecker) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "sync",
		Version:     "test",
		Port:        8080,
		Logger:      logger,
		DB:          db,
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "sync", body.Service)
	assert.NotEmpty(t, body.Timestamp)
}

func TestReadyBeforeSetReady(t *testing.T) {
	s := newTestServer(&stubChecker{})
	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "not_ready", body.Checks["service"])
	assert.Equal(t, "ok", body.Checks["database"])
}

func TestReadyWithHealthyDatabase(t *testing.T) {
	s := newTestServer(&stubChecker{})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestReadyWithFailingDatabase(t *testing.T) {
	s := newTestServer(&stubChecker{err: errors.New("connection refused")})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Checks["database"], "connection refused")
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(nil)
	assert.NoError(t, s.Shutdown())
}
