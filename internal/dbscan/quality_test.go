package dbscan

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dbscan/internal/testutil"
)

func TestReport_TwoGroupsWithOutlier(t *testing.T) {
	t.Parallel()

	c := testClusterer(t, 1.5, 3, MustMetric(Euclidean, 0))
	_, err := c.Run(testutil.TwoGroupsWithOutlier())
	require.NoError(t, err)

	rep, err := c.Report()
	require.NoError(t, err)

	assert.Equal(t, 7, rep.NumPoints)
	assert.Equal(t, 2, rep.NumClusters)
	assert.Equal(t, 1, rep.NumNoise)
	require.Len(t, rep.Clusters, 2)

	// Both groups are the same right triangle, shifted by (10, 10).
	wantTightness := (math.Sqrt2/3 + 2*math.Sqrt(5)/3) / 3
	wantCentroids := [][]float64{{1.0 / 3, 1.0 / 3}, {31.0 / 3, 31.0 / 3}}
	for i, cs := range rep.Clusters {
		assert.Equal(t, i+1, cs.ID)
		assert.Equal(t, 3, cs.Size)
		assert.InDeltaSlice(t, wantCentroids[i], cs.Centroid, 1e-12)
		assert.InDelta(t, wantTightness, cs.Tightness, 1e-12)
		assert.Greater(t, cs.Tightness, 0.0)
	}

	require.NotNil(t, rep.Separation)
	assert.InDelta(t, 10*math.Sqrt2, *rep.Separation, 1e-9)
	for _, cs := range rep.Clusters {
		assert.Greater(t, *rep.Separation, cs.Tightness)
	}

	require.NotNil(t, rep.DaviesBouldin)
	assert.InDelta(t, 2*wantTightness/(10*math.Sqrt2), *rep.DaviesBouldin, 1e-9)

	require.NotNil(t, rep.AverageDistance)
	assert.InDelta(t, bruteAverage(t, testutil.TwoGroupsWithOutlier(), MustMetric(Euclidean, 0)), *rep.AverageDistance, 1e-9)
}

func TestReport_SeparationIsMeanOverPairs(t *testing.T) {
	t.Parallel()

	// Three singleton clusters on a line: centroid distances 10, 30 and 20.
	c := testClusterer(t, 1, 1, MustMetric(Manhattan, 0))
	_, err := c.Run(line(0, 10, 30))
	require.NoError(t, err)

	rep, err := c.Report()
	require.NoError(t, err)
	require.NotNil(t, rep.Separation)
	assert.InDelta(t, 20.0, *rep.Separation, 1e-12)

	// Singletons are perfectly tight.
	require.NotNil(t, rep.DaviesBouldin)
	assert.Zero(t, *rep.DaviesBouldin)
}

func TestReport_SingleClusterNotApplicable(t *testing.T) {
	t.Parallel()

	c := testClusterer(t, 1, 2, MustMetric(Euclidean, 0))
	_, err := c.Run([][]float64{{2, 2}, {2, 2}, {2, 2}})
	require.NoError(t, err)

	rep, err := c.Report()
	require.NoError(t, err)
	require.Len(t, rep.Clusters, 1)
	assert.InDelta(t, 0.0, rep.Clusters[0].Tightness, 1e-12, "coincident members have zero tightness")
	assert.InDeltaSlice(t, []float64{2, 2}, rep.Clusters[0].Centroid, 1e-12)
	assert.Nil(t, rep.Separation)
	assert.Nil(t, rep.DaviesBouldin)
	require.NotNil(t, rep.AverageDistance)
	assert.Zero(t, *rep.AverageDistance)
}

func TestReport_SinglePoint(t *testing.T) {
	t.Parallel()

	c := testClusterer(t, 1, 2, MustMetric(Euclidean, 0))
	_, err := c.Run([][]float64{{1, 2, 3}})
	require.NoError(t, err)

	rep, err := c.Report()
	require.NoError(t, err)
	assert.Zero(t, rep.NumClusters)
	assert.Equal(t, 1, rep.NumNoise)
	assert.Empty(t, rep.Clusters)
	assert.Nil(t, rep.AverageDistance)
	assert.Nil(t, rep.Separation)
}

func TestReport_NotFitted(t *testing.T) {
	t.Parallel()

	_, err := NewDefault().Report()
	testutil.AssertErrorIs(t, err, ErrNotFitted)
}

func bruteAverage(t *testing.T, points [][]float64, m Metric) float64 {
	t.Helper()
	var sum float64
	var pairs int
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			d, err := m.Distance(points[i], points[j])
			require.NoError(t, err)
			sum += d
			pairs++
		}
	}
	return sum / float64(pairs)
}

func TestQualityReport_MarshalJSONDropsInfinity(t *testing.T) {
	t.Parallel()

	sep, db := 0.0, math.Inf(1)
	rep := &QualityReport{NumPoints: 4, NumClusters: 2, Separation: &sep, DaviesBouldin: &db}

	data, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "davies_bouldin")
	assert.Contains(t, string(data), `"separation":0`)
	assert.True(t, math.IsInf(*rep.DaviesBouldin, 1), "the report itself is unchanged")
}
