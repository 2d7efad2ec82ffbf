package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter
	c.Inc()
	c.Add(4)
	require.Equal(t, int64(5), c.Value())
}

func TestGauge(t *testing.T) {
	var g Gauge
	g.Set(3)
	g.Set(7)
	require.Equal(t, int64(7), g.Value())
}

func TestHistogramMean(t *testing.T) {
	var h Histogram
	require.Equal(t, time.Duration(0), h.Mean())

	h.Observe(10 * time.Millisecond)
	h.Observe(20 * time.Millisecond)
	require.Equal(t, 15*time.Millisecond, h.Mean())
}
