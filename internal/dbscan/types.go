package dbscan

// PointState tracks a point through a single Run. A point never returns to
// Unvisited once it has left that state.
type PointState uint8

const (
	Unvisited PointState = iota
	Visited
	Noise
)

func (s PointState) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Visited:
		return "visited"
	case Noise:
		return "noise"
	}
	return "unknown"
}

// NoiseSlot is the Partition slot holding noise points.
const NoiseSlot = 0

// Unclassified is returned by Predict when no clustered point lies within
// epsilon of the query. It is never a valid cluster id.
const Unclassified = -1

// Partition groups point indices by cluster. Slot 0 is the noise bucket
// (possibly empty); slots 1..K are clusters in discovery order. Every index
// of the dataset appears in exactly one slot.
type Partition [][]int

// Noise returns the noise bucket.
func (p Partition) Noise() []int {
	if len(p) == 0 {
		return nil
	}
	return p[NoiseSlot]
}

// NumClusters returns K, the number of non-noise clusters.
func (p Partition) NumClusters() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Cluster returns the members of cluster id (1..K), or nil if out of range.
func (p Partition) Cluster(id int) []int {
	if id < 1 || id >= len(p) {
		return nil
	}
	return p[id]
}

// Result is the outcome of one Run. It is built fresh for every call.
type Result struct {
	Partition   Partition
	States      []PointState // Final state per point: Visited or Noise
	Labels      []int        // Partition slot per point; NoiseSlot for noise
	NumClusters int
	NumNoise    int

	params  Params
	dataset [][]float64
}

// Params returns the parameters the result was computed with.
func (r *Result) Params() Params { return r.params }

// NumPoints returns the size of the clustered dataset.
func (r *Result) NumPoints() int { return len(r.dataset) }

// Point returns a copy of the feature vector at index i.
func (r *Result) Point(i int) []float64 {
	return append([]float64(nil), r.dataset[i]...)
}
