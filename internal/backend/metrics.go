// metrics.go — Prometheus метрики исходящих запросов к backend.
// Регистрирует: df_backend_requests_total, df_backend_request_duration_seconds.
package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения лейбла outcome.
const (
	outcomeSuccess     = "success"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeBadStatus   = "bad_status"
	outcomeMalformed   = "malformed"
)

var (
	// backendRequestsTotal — количество запросов к backend по action и исходу.
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "df_backend_requests_total",
			Help: "Общее количество запросов к backend учёта пожертвований",
		},
		[]string{"action", "outcome"},
	)

	// backendRequestDuration — длительность запросов к backend.
	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "df_backend_request_duration_seconds",
			Help:    "Длительность запросов к backend в секундах",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"action"},
	)
)
