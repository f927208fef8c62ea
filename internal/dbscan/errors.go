package dbscan

import "errors"

var (
	// ErrDimensionMismatch indicates two feature vectors of different length were compared.
	ErrDimensionMismatch = errors.New("dbscan: feature vector dimensions do not match")
	// ErrInvalidConfiguration indicates Params or a Metric failed validation.
	ErrInvalidConfiguration = errors.New("dbscan: invalid configuration")
	// ErrEmptyDataset indicates Run was called with no points.
	ErrEmptyDataset = errors.New("dbscan: dataset must contain at least one point")
	// ErrNonFiniteFeature indicates a feature vector holds NaN or ±Inf.
	ErrNonFiniteFeature = errors.New("dbscan: feature values must be finite")
	// ErrNotFitted indicates Report or Predict was called before a successful Run.
	ErrNotFitted = errors.New("dbscan: clusterer has not been run")
)
