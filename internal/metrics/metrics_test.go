package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandfall/internal/sim"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestObserveAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := New(reg)
	require.NoError(t, err)

	e.Observe(sim.Stats{ActiveChunks: 4, Visited: 90, RuleCalls: 90, Moves: 12, Duration: time.Millisecond}, sim.Totals{Rejected: 2})
	e.Observe(sim.Stats{ActiveChunks: 1, Visited: 10, RuleCalls: 10, Moves: 3, Slept: 3}, sim.Totals{Rejected: 5})

	got := gather(t, reg)
	assert.Equal(t, 2.0, got["sandfall_ticks_total"])
	assert.Equal(t, 100.0, got["sandfall_rule_calls_total"])
	assert.Equal(t, 15.0, got["sandfall_moves_total"])
	assert.Equal(t, 3.0, got["sandfall_chunks_slept_total"])
	assert.Equal(t, 5.0, got["sandfall_mutations_rejected_total"])
	assert.Equal(t, 1.0, got["sandfall_active_chunks"], "gauges hold the last tick")
	assert.Equal(t, 2.0, got["sandfall_tick_duration_seconds"])
}

func TestObserveAfterReset(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := New(reg)
	require.NoError(t, err)

	e.Observe(sim.Stats{}, sim.Totals{Rejected: 4})
	e.Observe(sim.Stats{}, sim.Totals{Rejected: 1})
	e.Observe(sim.Stats{}, sim.Totals{Rejected: 3})
	assert.Equal(t, 6.0, gather(t, reg)["sandfall_mutations_rejected_total"])
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestExporterFromWorld(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := New(reg)
	require.NoError(t, err)

	w := sim.New(64, 48)
	w.Reset(3)
	for i := 0; i < 5; i++ {
		w.Step()
		e.Observe(w.Stats(), w.Totals())
	}
	got := gather(t, reg)
	assert.Equal(t, 5.0, got["sandfall_ticks_total"])
	assert.Equal(t, float64(w.Totals().RuleCalls), got["sandfall_rule_calls_total"])
}
