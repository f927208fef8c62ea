package dbscan

// regionQuery returns, in index order, every point within eps of points[idx],
// idx itself included.
func regionQuery(points [][]float64, idx int, eps float64, metric Metric) []int {
	return withinEps(points, points[idx], eps, metric)
}

// withinEps returns the indices of points within eps (inclusive) of v.
func withinEps(points [][]float64, v []float64, eps float64, metric Metric) []int {
	var neighbors []int
	for j, p := range points {
		if metric.distance(v, p) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
