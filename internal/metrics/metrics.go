// Package metrics exposes Prometheus counters for the poll loop and notifier.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Suppression reasons.
const (
	ReasonDuplicate = "duplicate"
	ReasonEmpty     = "empty"
)

// Metrics groups the bot's counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Polls            prometheus.Counter
	PollFailures     *prometheus.CounterVec
	Notifications    prometheus.Counter
	DeliveryFailures prometheus.Counter
	Suppressed       *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the counters and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homework_bot",
			Name:      "polls_total",
			Help:      "The total number of poll iterations",
		}),
		PollFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "homework_bot",
				Name:      "poll_failures_total",
				Help:      "Poll iterations that ended in an error, by error kind",
			},
			[]string{"kind"},
		),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homework_bot",
			Name:      "notifications_total",
			Help:      "Notifications delivered to the chat",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homework_bot",
			Name:      "delivery_failures_total",
			Help:      "Notifications the messaging provider failed to accept",
		}),
		Suppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "homework_bot",
				Name:      "suppressed_total",
				Help:      "Iterations that produced no notification, by reason",
			},
			[]string{"reason"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.Polls, m.PollFailures, m.Notifications, m.DeliveryFailures, m.Suppressed)
	return m
}

// ObservePoll counts one poll iteration.
func (m *Metrics) ObservePoll() {
	if m == nil {
		return
	}
	m.Polls.Inc()
}

// ObservePollFailure counts a failed iteration under the given error kind.
func (m *Metrics) ObservePollFailure(kind string) {
	if m == nil {
		return
	}
	m.PollFailures.WithLabelValues(kind).Inc()
}

// ObserveSuppressed counts an iteration that sent nothing.
func (m *Metrics) ObserveSuppressed(reason string) {
	if m == nil {
		return
	}
	m.Suppressed.WithLabelValues(reason).Inc()
}

// ObserveDelivery counts a send attempt by outcome.
func (m *Metrics) ObserveDelivery(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.DeliveryFailures.Inc()
		return
	}
	m.Notifications.Inc()
}

// Handler returns the HTTP handler serving /metrics and /health.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", healthCheckHandler)
	return mux
}

// Serve runs the metrics and health endpoint on port until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, port int, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("launching metrics and health endpoint", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
