package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetricsCustomRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBooking("created")
	m.ObserveBooking("conflict")
	m.ObserveBooking("conflict")
	m.ObserveSlotCache("hit")
	m.ObserveRequest(http.MethodGet, "/api/provinces", http.StatusOK, 0.01)

	body := scrape(t, m)
	assert.Contains(t, body, `turnos_booking_attempts_total{outcome="conflict"} 2`)
	assert.Contains(t, body, `turnos_booking_attempts_total{outcome="created"} 1`)
	assert.Contains(t, body, `turnos_availability_slot_cache_total{result="hit"} 1`)
	assert.Contains(t, body, `turnos_http_requests_total{method="GET",route="/api/provinces",status="200"} 1`)
	assert.Contains(t, body, `turnos_http_request_duration_seconds_count{method="GET",route="/api/provinces"} 1`)
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, 0.001)
	assert.Contains(t, scrape(t, m), `route="unmatched",status="404"`)
}

func TestMetricsRegistriesAreIsolated(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())
	a.ObserveBooking("created")
	assert.NotContains(t, scrape(t, b), `outcome="created"`)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveBooking("created")
	m.ObserveSlotCache("miss")
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, 0.1)
	assert.NotNil(t, m.Handler())
}
