package dbscan

import (
	"fmt"
	"math"

	"github.com/banshee-data/dbscan/internal/monitoring"
)

// Clusterer runs DBSCAN with a fixed set of Params and keeps the latest
// Result for Report and Predict.
type Clusterer struct {
	params Params
	result *Result
}

// New validates params and returns a Clusterer.
func New(params Params) (*Clusterer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Clusterer{params: params}, nil
}

// NewDefault returns a Clusterer using DefaultParams.
func NewDefault() *Clusterer {
	return &Clusterer{params: DefaultParams()}
}

// Params returns the current clustering parameters.
func (c *Clusterer) Params() Params {
	return c.params
}

// SetParams validates and replaces the parameters. The previous Result is
// discarded, so Report and Predict return ErrNotFitted until the next Run.
func (c *Clusterer) SetParams(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	c.params = params
	c.result = nil
	return nil
}

// Result returns the latest Run result, or nil before the first Run.
func (c *Clusterer) Result() *Result {
	return c.result
}

// Run partitions dataset. Points are scanned in index order; each unvisited
// point either becomes noise (fewer than MinPts neighbours) or seeds a new
// cluster that is expanded to every density-reachable point. The dataset is
// copied, so later changes by the caller do not affect the result.
//
// Slot 0 of the returned Partition is the noise bucket, even when empty.
// Running twice on the same input yields the same Partition.
func (c *Clusterer) Run(dataset [][]float64) (*Result, error) {
	points, err := copyDataset(dataset)
	if err != nil {
		return nil, err
	}

	r := newRun(points, c.params)
	noise := make([]int, 0)
	partition := Partition{nil}

	for i := range points {
		if r.states[i] != Unvisited {
			continue // Absorbed by an earlier cluster
		}

		neighbors := regionQuery(points, i, c.params.Eps, c.params.Metric)
		if len(neighbors) < c.params.MinPts {
			r.states[i] = Noise
			noise = append(noise, i)
			continue
		}

		clusterID := len(partition)
		members := r.expandCluster(i, neighbors, clusterID)
		for _, m := range members {
			r.states[m] = Visited
		}
		partition = append(partition, members)
		monitoring.Debugf("[dbscan] cluster %d seeded at point %d: %d members", clusterID, i, len(members))
	}

	// Noise reached by a later cluster was reclaimed as a border point.
	kept := noise[:0]
	for _, i := range noise {
		if r.states[i] == Noise {
			kept = append(kept, i)
		}
	}
	partition[NoiseSlot] = kept

	res := &Result{
		Partition:   partition,
		States:      r.states,
		Labels:      r.labels,
		NumClusters: partition.NumClusters(),
		NumNoise:    len(kept),
		params:      c.params,
		dataset:     points,
	}
	c.result = res

	monitoring.Logf("[dbscan] %d points -> %d clusters, %d noise (%s)",
		len(points), res.NumClusters, res.NumNoise, c.params)
	return res, nil
}

// NeighborCount returns how many points of the last Run lie within eps of v.
func (c *Clusterer) NeighborCount(v []float64) (int, error) {
	res, err := c.fitted(v)
	if err != nil {
		return 0, err
	}
	return len(withinEps(res.dataset, v, res.params.Eps, res.params.Metric)), nil
}

func (c *Clusterer) fitted(v []float64) (*Result, error) {
	if c.result == nil {
		return nil, ErrNotFitted
	}
	if dim := len(c.result.dataset[0]); len(v) != dim {
		return nil, fmt.Errorf("%w: query has %d features, dataset has %d", ErrDimensionMismatch, len(v), dim)
	}
	if j := nonFinite(v); j >= 0 {
		return nil, fmt.Errorf("%w: query feature %d is %v", ErrNonFiniteFeature, j, v[j])
	}
	return c.result, nil
}

// copyDataset checks that dataset is non-empty with equal, non-zero
// dimensions and finite values, and returns a deep copy.
func copyDataset(dataset [][]float64) ([][]float64, error) {
	if len(dataset) == 0 {
		return nil, ErrEmptyDataset
	}
	dim := len(dataset[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: point 0 has no features", ErrDimensionMismatch)
	}
	points := make([][]float64, len(dataset))
	for i, v := range dataset {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: point %d has %d features, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		if j := nonFinite(v); j >= 0 {
			return nil, fmt.Errorf("%w: point %d feature %d is %v", ErrNonFiniteFeature, i, j, v[j])
		}
		points[i] = append([]float64(nil), v...)
	}
	return points, nil
}

// nonFinite returns the index of the first NaN or infinite value in v, or -1.
func nonFinite(v []float64) int {
	for j, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return j
		}
	}
	return -1
}
