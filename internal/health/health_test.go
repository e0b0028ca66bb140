package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestReadyWithDatabaseUp(t *testing.T) {
	h := NewHealthChecker(stubPinger{})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestReadyWithDatabaseDown(t *testing.T) {
	h := NewHealthChecker(stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLivenessDegradedWithDatabaseDown(t *testing.T) {
	h := NewHealthChecker(stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Handler(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestLivenessWithDatabaseUp(t *testing.T) {
	h := NewHealthChecker(stubPinger{})

	rec := httptest.NewRecorder()
	h.Handler(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
