package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"agendamed/internal/pkg/metrics"
)

func TestMetrics_CountsByLabel(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry(), "agendamed")

	m.ObserveBooking(metrics.BookingCreated)
	m.ObserveBooking(metrics.BookingConflict)
	m.ObserveBooking(metrics.BookingConflict)
	m.ObserveLogin(metrics.LoginRejected)
	m.ObserveHTTP("GET /api/specialties", "GET", 200, 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues(metrics.BookingCreated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Bookings.WithLabelValues(metrics.BookingConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(metrics.LoginRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET /api/specialties", "GET", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveBooking(metrics.BookingCreated)
		m.ObserveLogin(metrics.LoginSuccess)
		m.ObserveHTTP("/ping", "GET", 200, time.Millisecond)
	})
}
