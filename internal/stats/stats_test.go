package stats_test

import (
	"sync"
	"testing"

	"github.com/kref/gouct/internal/stats"
	"github.com/stretchr/testify/require"
)

func TestMeanAccumulatesValueAndCount(t *testing.T) {
	var m stats.Mean
	m.Add(1)
	m.Add(2)
	m.Add(3)
	require.Equal(t, int64(3), m.Count())
	require.InDelta(t, 2.0, m.Value(), 1e-6)
}

func TestMeanValueIsZeroWithNoObservations(t *testing.T) {
	var m stats.Mean
	require.Equal(t, float64(0), m.Value())
}

func TestMeanSeedPrimesCountAndValue(t *testing.T) {
	var m stats.Mean
	m.Seed(0.5, 10)
	require.Equal(t, int64(10), m.Count())
	require.InDelta(t, 0.5, m.Value(), 1e-6)
}

func TestMeanResetClearsAccumulator(t *testing.T) {
	var m stats.Mean
	m.Add(1)
	m.Reset()
	require.Equal(t, int64(0), m.Count())
	require.Equal(t, float64(0), m.Value())
}

func TestMeanTolerateConcurrentAdds(t *testing.T) {
	var m stats.Mean
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add(1)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(50), m.Count())
}

func TestWelfordMeanAndVariance(t *testing.T) {
	w := stats.NewWelford()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		w.Add(v)
	}
	require.Equal(t, int64(8), w.Count())
	require.InDelta(t, 5.0, w.Mean(), 1e-9)
	require.InDelta(t, 4.0, w.Variance(), 1e-9)
	require.Equal(t, float64(2), w.Min())
	require.Equal(t, float64(9), w.Max())
}

func TestWelfordVarianceIsZeroWithFewerThanTwoSamples(t *testing.T) {
	w := stats.NewWelford()
	w.Add(3)
	require.Equal(t, float64(0), w.Variance())
}

func TestHistogramBucketsByFraction(t *testing.T) {
	h := stats.NewHistogram(0, 10, 5)
	h.Add(0)
	h.Add(9.9)
	h.Add(-5)
	h.Add(100)
	bins := h.Bins()
	require.Equal(t, int64(2), bins[0])
	require.Equal(t, int64(2), bins[len(bins)-1])
}
