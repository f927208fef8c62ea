package dbscan

// run holds the per-point bookkeeping for a single Run call.
type run struct {
	points [][]float64
	params Params
	states []PointState
	labels []int // owning slot per point; NoiseSlot while unassigned
	queued []int // id of the last cluster that queued the point; 0 = never
}

func newRun(points [][]float64, params Params) *run {
	return &run{
		points: points,
		params: params,
		states: make([]PointState, len(points)),
		labels: make([]int, len(points)),
		queued: make([]int, len(points)),
	}
}

// expandCluster grows cluster clusterID breadth-first from a core seed.
// neighbors is the seed's neighbourhood and is used as the work queue; each
// index is queued at most once per cluster, so the loop ends after at most
// len(points) steps. Border points join the cluster but do not extend it.
// Points already owned by an earlier cluster are left where they are; noise
// points reached here become border members.
func (r *run) expandCluster(seed int, neighbors []int, clusterID int) []int {
	members := []int{seed}
	r.labels[seed] = clusterID
	r.states[seed] = Visited
	for _, idx := range neighbors {
		r.queued[idx] = clusterID
	}

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if r.states[idx] == Unvisited {
			r.states[idx] = Visited
			next := regionQuery(r.points, idx, r.params.Eps, r.params.Metric)
			if len(next) >= r.params.MinPts {
				for _, n := range next {
					if r.queued[n] != clusterID {
						r.queued[n] = clusterID
						neighbors = append(neighbors, n)
					}
				}
			}
		}

		if r.labels[idx] == NoiseSlot {
			r.labels[idx] = clusterID
			members = append(members, idx)
		}
	}
	return members
}
