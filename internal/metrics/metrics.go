// Package metrics exports world tick statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sandfall/internal/sim"
)

const namespace = "sandfall"

// Exporter turns per-tick sim.Stats into counters and gauges.
type Exporter struct {
	ticks      prometheus.Counter
	ruleCalls  prometheus.Counter
	moves      prometheus.Counter
	transforms prometheus.Counter
	decays     prometheus.Counter
	waits      prometheus.Counter
	slept      prometheus.Counter
	mutations  prometheus.Counter
	rejected   prometheus.Counter

	activeChunks prometheus.Gauge
	visited      prometheus.Gauge
	tickDuration prometheus.Histogram

	lastRejected uint64
}

// New creates the exporter and registers it with reg.
func New(reg prometheus.Registerer) (*Exporter, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	e := &Exporter{
		ticks:      counter("ticks_total", "Completed simulation ticks."),
		ruleCalls:  counter("rule_calls_total", "Rule evaluations."),
		moves:      counter("moves_total", "Cells moved."),
		transforms: counter("transforms_total", "Reactions, ignitions and corrosion."),
		decays:     counter("decays_total", "Lifetime and burn countdown steps."),
		waits:      counter("waits_total", "Cells waiting on a pending random outcome."),
		slept:      counter("chunks_slept_total", "Chunks that fell asleep."),
		mutations:  counter("mutations_total", "Edit requests applied."),
		rejected:   counter("mutations_rejected_total", "Edit requests rejected at submission."),
		activeChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_chunks",
			Help:      "Chunks swept in the last tick.",
		}),
		visited: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visited_cells",
			Help:      "Cells visited in the last tick.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in Step.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	collectors := []prometheus.Collector{
		e.ticks, e.ruleCalls, e.moves, e.transforms, e.decays, e.waits,
		e.slept, e.mutations, e.rejected, e.activeChunks, e.visited, e.tickDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Observe records one tick. totals supplies the rejection count, which is
// tracked outside the tick.
func (e *Exporter) Observe(st sim.Stats, totals sim.Totals) {
	e.ticks.Inc()
	e.ruleCalls.Add(float64(st.RuleCalls))
	e.moves.Add(float64(st.Moves))
	e.transforms.Add(float64(st.Transforms))
	e.decays.Add(float64(st.Decays))
	e.waits.Add(float64(st.Waits))
	e.slept.Add(float64(st.Slept))
	e.mutations.Add(float64(st.Mutations))
	if totals.Rejected > e.lastRejected {
		e.rejected.Add(float64(totals.Rejected - e.lastRejected))
	}
	// A reset rewinds the totals.
	e.lastRejected = totals.Rejected

	e.activeChunks.Set(float64(st.ActiveChunks))
	e.visited.Set(float64(st.Visited))
	e.tickDuration.Observe(st.Duration.Seconds())
}

// Serve exposes /metrics for g on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
