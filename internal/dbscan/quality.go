package dbscan

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ClusterStats summarises one cluster of a Partition.
type ClusterStats struct {
	ID        int       `json:"id"`
	Size      int       `json:"size"`
	Centroid  []float64 `json:"centroid"`
	Tightness float64   `json:"tightness"` // Mean member distance to the centroid
}

// QualityReport describes how well separated a Partition is. Pointer fields
// are nil when the value is not applicable: Separation and DaviesBouldin need
// at least two clusters, AverageDistance needs at least two points.
type QualityReport struct {
	NumPoints       int            `json:"num_points"`
	NumClusters     int            `json:"num_clusters"`
	NumNoise        int            `json:"num_noise"`
	Clusters        []ClusterStats `json:"clusters"`
	Separation      *float64       `json:"separation,omitempty"`
	DaviesBouldin   *float64       `json:"davies_bouldin,omitempty"`
	AverageDistance *float64       `json:"average_distance,omitempty"`
}

// MarshalJSON encodes non-finite values (a Davies–Bouldin index over
// coincident centroids) as absent, since JSON has no infinity.
func (r QualityReport) MarshalJSON() ([]byte, error) {
	type plain QualityReport
	out := plain(r)
	out.Separation = finite(r.Separation)
	out.DaviesBouldin = finite(r.DaviesBouldin)
	out.AverageDistance = finite(r.AverageDistance)
	return json.Marshal(out)
}

func finite(v *float64) *float64 {
	if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
		return nil
	}
	return v
}

// Report computes the QualityReport for the latest Run.
func (c *Clusterer) Report() (*QualityReport, error) {
	if c.result == nil {
		return nil, ErrNotFitted
	}
	return c.result.Report(), nil
}

// Report computes the QualityReport for r.
//
// Separation is the mean centroid distance over all cluster pairs. The
// Davies–Bouldin value is the maximum over pairs (i, j) of
// (tightness_i + tightness_j) / distance(centroid_i, centroid_j); lower is
// better. Coincident centroids give +Inf for that pair.
func (r *Result) Report() *QualityReport {
	metric := r.params.Metric
	k := r.Partition.NumClusters()

	rep := &QualityReport{
		NumPoints:       len(r.dataset),
		NumClusters:     k,
		NumNoise:        r.NumNoise,
		Clusters:        make([]ClusterStats, 0, k),
		AverageDistance: averageDistance(r.dataset, metric),
	}

	for id := 1; id <= k; id++ {
		members := r.Partition[id]
		centroid := r.centroid(members)
		rep.Clusters = append(rep.Clusters, ClusterStats{
			ID:        id,
			Size:      len(members),
			Centroid:  centroid,
			Tightness: r.tightness(members, centroid),
		})
	}

	if k < 2 {
		return rep
	}

	var sum, db float64
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			ci, cj := rep.Clusters[i], rep.Clusters[j]
			d := metric.distance(ci.Centroid, cj.Centroid)
			sum += d

			ratio := math.Inf(1)
			if d > 0 {
				ratio = (ci.Tightness + cj.Tightness) / d
			}
			db = math.Max(db, ratio)
		}
	}
	separation := sum * 2 / float64(k*(k-1))
	rep.Separation = &separation
	rep.DaviesBouldin = &db
	return rep
}

// centroid returns the feature-wise mean of members.
func (r *Result) centroid(members []int) []float64 {
	c := make([]float64, len(r.dataset[0]))
	for _, idx := range members {
		floats.Add(c, r.dataset[idx])
	}
	floats.Scale(1/float64(len(members)), c)
	return c
}

// tightness returns the mean distance of members to centroid.
func (r *Result) tightness(members []int, centroid []float64) float64 {
	d := make([]float64, len(members))
	for i, idx := range members {
		d[i] = r.params.Metric.distance(r.dataset[idx], centroid)
	}
	return stat.Mean(d, nil)
}

// averageDistance is the mean over all unordered point pairs, or nil for a
// single point.
func averageDistance(points [][]float64, metric Metric) *float64 {
	n := len(points)
	if n < 2 {
		return nil
	}
	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += metric.distance(points[i], points[j])
		}
	}
	avg := sum * 2 / float64(n*(n-1))
	return &avg
}
