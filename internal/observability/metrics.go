package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	datagramsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "transport",
			Name:      "datagrams_received_total",
			Help:      "Datagrams read from the socket.",
		},
	)
	datagramsUndecodable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "transport",
			Name:      "datagrams_undecodable_total",
			Help:      "Datagrams dropped because they failed to decode.",
		},
	)
	datagramsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "transport",
			Name:      "datagrams_dropped_total",
			Help:      "Decoded datagrams dropped due to inbound queue saturation.",
		},
	)
	repliesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "transport",
			Name:      "replies_sent_total",
			Help:      "Replies written to the socket.",
		},
	)
	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "command",
			Name:      "executed_total",
			Help:      "Commands executed, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qregctl",
			Subsystem: "command",
			Name:      "duration_seconds",
			Help:      "Command execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "qregctl",
			Subsystem: "session",
			Name:      "active",
			Help:      "Live sessions in the registry.",
		},
	)
	sessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "session",
			Name:      "expired_total",
			Help:      "Sessions reclaimed after idle timeout.",
		},
	)
	sessionQueueDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "session",
			Name:      "queue_drops_total",
			Help:      "Admitted commands dropped due to session queue saturation.",
		},
	)
	adminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qregctl",
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	adminDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qregctl",
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			datagramsReceived,
			datagramsUndecodable,
			datagramsDropped,
			repliesSent,
			commands,
			commandDuration,
			activeSessions,
			sessionsExpired,
			sessionQueueDrops,
			adminRequests,
			adminDuration,
		)
	})
}

func RecordDatagramReceived() {
	RegisterMetrics()
	datagramsReceived.Inc()
}

func RecordDatagramUndecodable() {
	RegisterMetrics()
	datagramsUndecodable.Inc()
}

func RecordDatagramDropped() {
	RegisterMetrics()
	datagramsDropped.Inc()
}

func RecordReplySent() {
	RegisterMetrics()
	repliesSent.Inc()
}

func RecordCommand(kind, outcome string, duration time.Duration) {
	RegisterMetrics()
	commands.WithLabelValues(kind, outcome).Inc()
	commandDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func SetActiveSessions(n int) {
	RegisterMetrics()
	activeSessions.Set(float64(n))
}

func RecordSessionExpired() {
	RegisterMetrics()
	sessionsExpired.Inc()
}

func RecordSessionQueueDrop() {
	RegisterMetrics()
	sessionQueueDrops.Inc()
}

func RecordAdminRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	adminRequests.WithLabelValues(method, path, statusLabel).Inc()
	adminDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
