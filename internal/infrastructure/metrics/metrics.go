package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	EntriesPosted   prometheus.Counter
	PostingErrors   *prometheus.CounterVec
	PostingDuration prometheus.Histogram
	EntryAmount     prometheus.Histogram
	PostingRetries  prometheus.Counter

	// Dictionary metrics
	AccountsCreated   prometheus.Counter
	OperationsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		EntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_entries_posted_total",
			Help: "Total number of entries posted",
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shiftledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shiftledger_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shiftledger_entry_amount",
			Help:    "Posted entry amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_posting_retries_total",
			Help: "Total number of posting transaction retries",
		}),

		// Dictionary metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		OperationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_operations_created_total",
			Help: "Total number of operations created",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shiftledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shiftledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_events_published_total",
			Help: "Total number of outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_event_publish_errors_total",
			Help: "Total number of outbox publish errors",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "shiftledger_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
