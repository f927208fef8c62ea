// Package dbscan clusters a fixed set of feature vectors by local density.
//
// A Clusterer is built from Params (epsilon radius, minimum neighbourhood
// size and a distance Metric). Run partitions a dataset into a noise bucket
// (slot 0) and K clusters (slots 1..K, in discovery order). Report derives
// centroids, tightness, separation and the Davies–Bouldin index from the
// latest partition, and Predict classifies a new vector against it.
//
// Neighbourhood queries are exhaustive pairwise scans, O(n) per query and
// O(n²) per Run. The package targets datasets of a few hundred to a few
// thousand points.
//
// A Clusterer is not safe for concurrent use.
package dbscan
