// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	HandshakesStarted   prometheus.Counter
	HandshakesFailed    prometheus.Counter
	HandshakesCompleted prometheus.Counter
	VerdictsAdmitted    prometheus.Counter
	VerdictsTooSoon     prometheus.Counter
	VerdictsTooPopular  prometheus.Counter
	InvitesMinted       prometheus.Counter
	InvitesFailed       prometheus.Counter
	RoomsCreated        prometheus.Counter
	RoomCreatesFailed   prometheus.Counter
	RoomsRemoved        prometheus.Counter
	SignatureFailures   prometheus.Counter

	// Histograms (seconds)
	HandshakeDuration prometheus.Observer

	// Gauges
	PendingDepthGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		HandshakesStarted = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_handshakes_started_total", Help: "Number of OAuth handshakes initiated"})
		HandshakesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_handshakes_failed_total", Help: "Number of OAuth handshakes that failed before a verdict"})
		HandshakesCompleted = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_handshakes_completed_total", Help: "Number of OAuth handshakes that reached a verdict"})
		VerdictsAdmitted = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_verdicts_admitted_total", Help: "Number of profiles admitted"})
		VerdictsTooSoon = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_verdicts_too_soon_total", Help: "Number of profiles rejected as too new"})
		VerdictsTooPopular = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_verdicts_too_popular_total", Help: "Number of profiles rejected as too popular"})
		InvitesMinted = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_invites_minted_total", Help: "Number of guild invites minted"})
		InvitesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_invites_failed_total", Help: "Number of invite mints that failed"})
		RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_rooms_created_total", Help: "Number of voice channels created by slash command"})
		RoomCreatesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_room_creates_failed_total", Help: "Number of voice channel creations that failed"})
		RoomsRemoved = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_rooms_removed_total", Help: "Number of voice channels removed by cleanup sweeps"})
		SignatureFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "gatehouse_signature_failures_total", Help: "Number of interaction requests rejected for a bad signature"})
		HandshakeDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "gatehouse_handshake_duration_seconds", Help: "Callback-to-verdict duration seconds", Buckets: prometheus.DefBuckets})
		PendingDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "gatehouse_pending_handshakes", Help: "Current number of pending OAuth handshakes"})
	})
}

// SetPendingDepth records the current pending-handshake count.
func SetPendingDepth(n int) {
	if PendingDepthGauge != nil {
		PendingDepthGauge.Set(float64(n))
	}
}

// AddRoomsRemoved records completed cleanup deletions.
func AddRoomsRemoved(n int) {
	if RoomsRemoved != nil && n > 0 {
		RoomsRemoved.Add(float64(n))
	}
}

// Inc increments a counter if metrics are initialized.
func Inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
