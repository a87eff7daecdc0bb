package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(http.MethodGet, "/api/v1/services", http.StatusOK, time.Millisecond)
		m.RecordDBQuery("select", time.Millisecond, nil)
		m.IncAppointmentsCreated()
		m.IncSelectionRejected("not_consecutive")
		m.IncStaleSessionResult()
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("barber-service", reg)

	m.IncAppointmentsCreated()
	m.IncAppointmentsCreated()
	m.IncSelectionRejected("wrong_count")
	m.RecordDBQuery("update", time.Millisecond, errors.New("boom"))
	m.RecordHTTPRequest(http.MethodPost, "/api/v1/appointments", http.StatusCreated, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, reg, "appointments_created_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "slot_selection_rejected_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "db_query_errors_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "http_requests_total"))
}

// counterValue возвращает сумму значений счетчика по всем меткам
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}

	t.Fatalf("metric %s not found", name)
	return 0
}
