package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewRegistersAllCollectorsOnceEach(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
	assert.NotNil(t, m)
}

func TestGaugesStartAtZeroAndTrackIncDecCalls(t *testing.T) {
	m := New(prometheus.NewRegistry())

	assert.Equal(t, float64(0), gaugeValue(t, m.ActiveRoutes))

	m.ActiveRoutes.Inc()
	m.ActiveRoutes.Inc()
	m.ActiveRoutes.Dec()
	assert.Equal(t, float64(1), gaugeValue(t, m.ActiveRoutes))
}

func TestCountersAccumulate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MessagesForwarded.Add(3)
	m.MessagesDroppedOnLag.Inc()
	m.SendFailures.Inc()
	m.RollbackUnregistrations.Add(2)

	assert.Equal(t, float64(3), counterValue(t, m.MessagesForwarded))
	assert.Equal(t, float64(1), counterValue(t, m.MessagesDroppedOnLag))
	assert.Equal(t, float64(1), counterValue(t, m.SendFailures))
	assert.Equal(t, float64(2), counterValue(t, m.RollbackUnregistrations))
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
