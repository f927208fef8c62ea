package dbscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dbscan/internal/testutil"
)

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, DefaultEps, p.Eps)
	assert.Equal(t, DefaultMinPts, p.MinPts)
	assert.Equal(t, Euclidean, p.Metric.Kind())
	assert.Equal(t, "eps=2 min_pts=3 metric=euclidean", p.String())
	assert.Equal(t, p.String(), NewDefault().Params().String())
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	euclid := MustMetric(Euclidean, 0)
	tests := []struct {
		name   string
		params Params
	}{
		{"zero eps", Params{Eps: 0, MinPts: 3, Metric: euclid}},
		{"negative eps", Params{Eps: -1, MinPts: 3, Metric: euclid}},
		{"NaN eps", Params{Eps: math.NaN(), MinPts: 3, Metric: euclid}},
		{"infinite eps", Params{Eps: math.Inf(1), MinPts: 3, Metric: euclid}},
		{"zero min_pts", Params{Eps: 1, MinPts: 0, Metric: euclid}},
		{"missing metric", Params{Eps: 1, MinPts: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertErrorIs(t, tt.params.Validate(), ErrInvalidConfiguration)
			_, err := New(tt.params)
			testutil.AssertErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}
