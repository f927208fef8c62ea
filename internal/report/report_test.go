package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dbscan/internal/dbscan"
	"github.com/banshee-data/dbscan/internal/testutil"
)

func runTwoGroups(t *testing.T) (*dbscan.Clusterer, *dbscan.Result) {
	t.Helper()
	c, err := dbscan.New(dbscan.Params{Eps: 1.5, MinPts: 3, Metric: dbscan.MustMetric(dbscan.Euclidean, 0)})
	require.NoError(t, err)
	res, err := c.Run(testutil.TwoGroupsWithOutlier())
	require.NoError(t, err)
	return c, res
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	c, _ := runTwoGroups(t)
	rep, err := c.Report()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep))
	out := buf.String()

	for _, want := range []string{
		"Average distance : ",
		"Created 2 clusters.\n",
		"Cluster 1 : 3 points\n",
		"\tCentroid: 0.333333 0.333333\n",
		"\tTightness = 0.654\n",
		"Cluster 2 : 3 points\n",
		"Separation = 14.142\n",
		"Davies-Bouldin index = 0.092\n",
		"1 noise points\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteText_NotApplicable(t *testing.T) {
	t.Parallel()

	c := dbscan.NewDefault()
	_, err := c.Run([][]float64{{0, 0}, {0, 1}, {1, 0}})
	require.NoError(t, err)
	rep, err := c.Report()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep))
	assert.Contains(t, buf.String(), "Separation = n/a\n")
	assert.Contains(t, buf.String(), "Davies-Bouldin index = n/a\n")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	c, _ := runTwoGroups(t)
	rep, err := c.Report()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))

	var decoded dbscan.QualityReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.NumClusters)
	assert.Equal(t, 1, decoded.NumNoise)
	require.NotNil(t, decoded.Separation)
	assert.InDelta(t, *rep.Separation, *decoded.Separation, 1e-12)
	assert.Len(t, decoded.Clusters, 2)
}

func TestWritePartition(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WritePartition(&buf, dbscan.Partition{{3}, {0, 1, 2}, {4, 5, 6}}))
	assert.Equal(t, "noise: 3\ncluster 1: 0 1 2\ncluster 2: 4 5 6\n", buf.String())
}

func TestWriteScatterHTML(t *testing.T) {
	t.Parallel()

	_, res := runTwoGroups(t)

	var buf bytes.Buffer
	require.NoError(t, WriteScatterHTML(&buf, res, "Two groups"))
	html := buf.String()
	assert.Contains(t, html, "Two groups")
	assert.Contains(t, html, "cluster 1")
	assert.Contains(t, html, "cluster 2")
	assert.Contains(t, html, "noise")
}

func TestWriteScatterPlot_SVG(t *testing.T) {
	t.Parallel()

	_, res := runTwoGroups(t)

	var buf bytes.Buffer
	require.NoError(t, WriteScatterPlot(&buf, res, "Two groups", "svg"))
	assert.True(t, strings.Contains(buf.String(), "<svg"), "expected SVG output")
}

func TestSaveScatterPlot_PNG(t *testing.T) {
	t.Parallel()

	c := dbscan.NewDefault()
	res, err := c.Run([][]float64{{0}, {1}, {2}, {40}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "clusters.png")
	require.NoError(t, SaveScatterPlot(res, "1-D", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "expected PNG header")
}

func TestSaveScatterPlot_BadFormat(t *testing.T) {
	t.Parallel()

	_, res := runTwoGroups(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "clusters.xyz")
	require.Error(t, SaveScatterPlot(res, "bad", path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed save must not leave a file behind")

	require.Error(t, SaveScatterPlot(res, "bad", filepath.Join(dir, "clusters")))
}

func TestSaveScatterPlot_SVGMatchesWriter(t *testing.T) {
	t.Parallel()

	_, res := runTwoGroups(t)
	path := filepath.Join(t.TempDir(), "clusters.SVG")
	require.NoError(t, SaveScatterPlot(res, "Two groups", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestProject(t *testing.T) {
	t.Parallel()

	x, y := project([]float64{3, 4, 5})
	assert.Equal(t, [2]float64{3, 4}, [2]float64{x, y})
	x, y = project([]float64{7})
	assert.Equal(t, [2]float64{7, 0}, [2]float64{x, y})
}
