package dbscan

// Predict classifies v against the latest Run. Points are scanned in index
// order and the cluster id (1..K) of the first clustered point within eps of
// v is returned; this is first match, not nearest match. Noise points never
// match. Unclassified is returned when nothing is in range.
func (c *Clusterer) Predict(v []float64) (int, error) {
	res, err := c.fitted(v)
	if err != nil {
		return Unclassified, err
	}
	metric := res.params.Metric
	for i, p := range res.dataset {
		if res.Labels[i] == NoiseSlot {
			continue
		}
		if metric.distance(v, p) <= res.params.Eps {
			return res.Labels[i], nil
		}
	}
	return Unclassified, nil
}
