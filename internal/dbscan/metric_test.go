package dbscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dbscan/internal/testutil"
)

func TestMetric_KnownDistances(t *testing.T) {
	t.Parallel()

	a := []float64{0, 0}
	b := []float64{3, 4}

	tests := []struct {
		name   string
		metric Metric
		want   float64
	}{
		{"euclidean", MustMetric(Euclidean, 0), 5},
		{"manhattan", MustMetric(Manhattan, 0), 7},
		{"chebyshev", MustMetric(Chebyshev, 0), 4},
		{"minkowski p=1", MustMetric(Minkowski, 1), 7},
		{"minkowski p=2", MustMetric(Minkowski, 2), 5},
		{"canberra", MustMetric(Canberra, 0), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric.Distance(a, b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMetric_ChebyshevIsRunningMax(t *testing.T) {
	t.Parallel()

	// The largest difference comes first; a running total would exceed it.
	d, err := MustMetric(Chebyshev, 0).Distance([]float64{0, 0, 0}, []float64{5, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)
}

func TestMetric_SymmetricAndZeroOnSelf(t *testing.T) {
	t.Parallel()

	vectors := [][]float64{
		{0, 0, 0},
		{1.5, -2, 3},
		{-4, 0, 0.25},
		{10, 10, -10},
	}
	metrics := []Metric{
		MustMetric(Euclidean, 0),
		MustMetric(Minkowski, 3),
		MustMetric(Manhattan, 0),
		MustMetric(Chebyshev, 0),
		MustMetric(Canberra, 0),
	}

	for _, m := range metrics {
		t.Run(m.String(), func(t *testing.T) {
			for i, a := range vectors {
				self, err := m.Distance(a, a)
				require.NoError(t, err)
				assert.Zero(t, self, "distance(v%d, v%d)", i, i)

				for j, b := range vectors {
					ab, err := m.Distance(a, b)
					require.NoError(t, err)
					ba, err := m.Distance(b, a)
					require.NoError(t, err)
					assert.Equal(t, ab, ba, "distance(v%d, v%d)", i, j)
					assert.GreaterOrEqual(t, ab, 0.0)
				}
			}
		})
	}
}

func TestMetric_CanberraSkipsZeroTerms(t *testing.T) {
	t.Parallel()

	d, err := MustMetric(Canberra, 0).Distance([]float64{0, 1}, []float64{0, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)
	assert.False(t, math.IsNaN(d))
}

func TestMetric_DimensionMismatch(t *testing.T) {
	t.Parallel()

	_, err := MustMetric(Euclidean, 0).Distance([]float64{1, 2}, []float64{1, 2, 3})
	testutil.AssertErrorIs(t, err, ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "2 != 3")
}

func TestNewMetric_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind MetricKind
		p    float64
	}{
		{"minkowski zero exponent", Minkowski, 0},
		{"minkowski negative exponent", Minkowski, -1},
		{"minkowski NaN exponent", Minkowski, math.NaN()},
		{"minkowski infinite exponent", Minkowski, math.Inf(1)},
		{"unknown kind", MetricKind(42), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetric(tt.kind, tt.p)
			testutil.AssertErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestMetric_FractionalMinkowskiKeepsDistinctPointsApart(t *testing.T) {
	t.Parallel()

	d, err := MustMetric(Minkowski, 0.5).Distance([]float64{0, 0}, []float64{0, 100})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, d, 1e-9)
}

func TestNewMetric_IgnoresExponentOutsideMinkowski(t *testing.T) {
	t.Parallel()

	m, err := NewMetric(Manhattan, 0)
	require.NoError(t, err)
	assert.Zero(t, m.P())
	assert.Equal(t, Manhattan, m.Kind())

	m, err = NewMetric(Minkowski, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.P())
	assert.Equal(t, "minkowski(p=3)", m.String())
}

func TestMetric_ZeroValueIsInvalid(t *testing.T) {
	t.Parallel()

	var m Metric
	assert.False(t, m.Valid())
	_, err := m.Distance([]float64{1}, []float64{2})
	testutil.AssertErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParseMetricKind(t *testing.T) {
	t.Parallel()

	for kind, name := range metricNames {
		got, err := ParseMetricKind(" " + name + " ")
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseMetricKind("Chebyshev")
	require.NoError(t, err)
	assert.Equal(t, Chebyshev, got)

	_, err = ParseMetricKind("cosine")
	testutil.AssertErrorIs(t, err, ErrInvalidConfiguration)

	assert.Equal(t, "MetricKind(42)", MetricKind(42).String())
}
