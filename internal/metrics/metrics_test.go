package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.LayerBuilt(LayerSorted)
	p.LayerBuilt(LayerSorted)
	p.Rescanned()
	p.BackingLoaded(true)
	p.BackingLoaded(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.layers.WithLabelValues(LayerSorted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.rescans))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.loads.WithLabelValues("error")))

	_, err = NewPrometheus(reg, "test")
	assert.Error(t, err, "registering the same counters twice must fail")
}

func TestCounting(t *testing.T) {
	c := NewCounting()
	var r Recorder = c
	r.LayerBuilt(LayerMatched)
	r.Rescanned()
	r.BackingLoaded(true)
	r.BackingLoaded(false)

	assert.Equal(t, 1, c.Layers[LayerMatched])
	assert.Equal(t, 1, c.Rescans)
	assert.Equal(t, 1, c.Loads)
	assert.Equal(t, 1, c.Failed)

	Nop{}.LayerBuilt(LayerRaw)
}
