// Package observability provides Prometheus metrics for the operation engine.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "doomsday"

// Metrics holds all Prometheus metrics of a node. Metrics are registered on
// a private registry so that several engines can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// Engine metrics
	OperationsTotal *prometheus.CounterVec
	ApplyDuration   *prometheus.HistogramVec
	LastSeq         prometheus.Gauge

	// Pool metrics
	SwapVolume    *prometheus.CounterVec
	DepositVolume *prometheus.CounterVec

	// Market metrics
	BetsTotal     *prometheus.CounterVec
	BetVolume     *prometheus.CounterVec
	PayoutVolume  *prometheus.CounterVec
	RefundVolume  *prometheus.CounterVec
	FeesCollected *prometheus.CounterVec
}

var _ tx.Observer = (*Metrics)(nil)

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Total number of processed operations by type and result",
		}, []string{"op", "result"}),
		ApplyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "apply_duration_seconds",
			Help:      "Time spent validating and applying an operation",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
		LastSeq: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "last_seq",
			Help:      "Sequence number of the last processed operation",
		}),

		SwapVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "swap_volume_total",
			Help:      "Total input amount swapped by direction",
		}, []string{"direction"}),
		DepositVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "deposit_volume_total",
			Help:      "Total amount deposited or issued by side",
		}, []string{"side"}),

		BetsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "bets_total",
			Help:      "Total number of bets placed by side",
		}, []string{"side"}),
		BetVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "bet_volume_total",
			Help:      "Total amount staked by side",
		}, []string{"side"}),
		PayoutVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "payout_volume_total",
			Help:      "Total gross payout by winning side",
		}, []string{"side"}),
		RefundVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "refund_volume_total",
			Help:      "Total amount refunded from cancelled events by side",
		}, []string{"side"}),
		FeesCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fees",
			Name:      "collected_total",
			Help:      "Total fees collected by token side",
		}, []string{"side"}),
	}
}

// Registry returns the private registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// OperationApplied records rec. Domain events are only counted for
// successful operations, since the engine drops them otherwise.
func (m *Metrics) OperationApplied(rec tx.Record) {
	op := rec.Op.OpType().String()
	m.OperationsTotal.WithLabelValues(op, rec.Result.String()).Inc()
	m.ApplyDuration.WithLabelValues(op).Observe(rec.Duration.Seconds())
	m.LastSeq.Set(float64(rec.Seq))

	for _, ev := range rec.Events {
		amount := float64(ev.Amount)
		switch ev.Kind {
		case tx.EventSwap:
			m.SwapVolume.WithLabelValues(ev.Label).Add(amount)
		case tx.EventDeposit:
			m.DepositVolume.WithLabelValues(ev.Label).Add(amount)
		case tx.EventBet:
			m.BetsTotal.WithLabelValues(ev.Label).Inc()
			m.BetVolume.WithLabelValues(ev.Label).Add(amount)
		case tx.EventPayout:
			m.PayoutVolume.WithLabelValues(ev.Label).Add(amount)
		case tx.EventRefund:
			m.RefundVolume.WithLabelValues(ev.Label).Add(amount)
		case tx.EventFee:
			m.FeesCollected.WithLabelValues(ev.Label).Add(amount)
		}
	}
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
