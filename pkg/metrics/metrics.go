// Package metrics - prometheus метрики сервиса
//
// Все методы безопасны для вызова на nil *Metrics: если метрики выключены в конфиге,
// компоненты получают nil и продолжают работать без сбора метрик.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса
type Metrics struct {
	service string

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// База данных
	dbQueryDuration    *prometheus.HistogramVec
	dbQueryErrors      *prometheus.CounterVec
	dbOpenConnections  *prometheus.GaugeVec
	dbInUseConnections *prometheus.GaugeVec
	dbIdleConnections  *prometheus.GaugeVec

	// Бизнес-метрики
	appointmentsCreated  *prometheus.CounterVec
	appointmentsCanceled *prometheus.CounterVec
	selectionRejected    *prometheus.CounterVec
	staleSessionResults  *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),

		dbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"service", "operation"},
		),
		dbQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Total number of failed database queries",
			},
			[]string{"service", "operation"},
		),
		dbOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_open_connections",
				Help: "Number of established connections to the database",
			},
			[]string{"service"},
		),
		dbInUseConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_in_use_connections",
				Help: "Number of connections currently in use",
			},
			[]string{"service"},
		),
		dbIdleConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_idle_connections",
				Help: "Number of idle connections",
			},
			[]string{"service"},
		),

		appointmentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointments_created_total",
				Help: "Total number of created appointments",
			},
			[]string{"service"},
		),
		appointmentsCanceled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointments_cancelled_total",
				Help: "Total number of cancelled appointments",
			},
			[]string{"service", "status"},
		),
		selectionRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_selection_rejected_total",
				Help: "Total number of rejected slot selections by reason",
			},
			[]string{"service", "reason"},
		),
		staleSessionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_session_stale_results_total",
				Help: "Total number of discarded stale booking session results",
			},
			[]string{"service"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.appointmentsCreated,
		m.appointmentsCanceled,
		m.selectionRejected,
		m.staleSessionResults,
	)

	return m
}

// RecordHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// RecordDBQuery записывает метрики запроса к БД
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(m.service).Set(float64(stats.OpenConnections))
	m.dbInUseConnections.WithLabelValues(m.service).Set(float64(stats.InUse))
	m.dbIdleConnections.WithLabelValues(m.service).Set(float64(stats.Idle))
}

// IncAppointmentsCreated увеличивает счетчик созданных записей
func (m *Metrics) IncAppointmentsCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(m.service).Inc()
}

// IncAppointmentsCancelled увеличивает счетчик отмененных записей
func (m *Metrics) IncAppointmentsCancelled(status string) {
	if m == nil {
		return
	}
	m.appointmentsCanceled.WithLabelValues(m.service, status).Inc()
}

// IncSelectionRejected увеличивает счетчик отклоненных выборов слотов
func (m *Metrics) IncSelectionRejected(reason string) {
	if m == nil {
		return
	}
	m.selectionRejected.WithLabelValues(m.service, reason).Inc()
}

// IncStaleSessionResult увеличивает счетчик отброшенных устаревших результатов
func (m *Metrics) IncStaleSessionResult() {
	if m == nil {
		return
	}
	m.staleSessionResults.WithLabelValues(m.service).Inc()
}
