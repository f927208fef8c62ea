package dbscan

import (
	"fmt"
	"math"
)

// Default clustering parameters.
const (
	DefaultEps    = 2.0
	DefaultMinPts = 3
)

// Params configures a Clusterer.
type Params struct {
	Eps    float64 // Neighbourhood radius, in metric units (inclusive)
	MinPts int     // Minimum neighbourhood size for a core point, counting the point itself
	Metric Metric
}

// DefaultParams returns Euclidean clustering with DefaultEps and DefaultMinPts.
func DefaultParams() Params {
	return Params{
		Eps:    DefaultEps,
		MinPts: DefaultMinPts,
		Metric: MustMetric(Euclidean, DefaultMinkowskiP),
	}
}

// Validate returns an error wrapping ErrInvalidConfiguration if any field is
// out of range.
func (p Params) Validate() error {
	if math.IsNaN(p.Eps) || math.IsInf(p.Eps, 0) || p.Eps <= 0 {
		return fmt.Errorf("%w: eps must be positive and finite, got %v", ErrInvalidConfiguration, p.Eps)
	}
	if p.MinPts < 1 {
		return fmt.Errorf("%w: min_pts must be at least 1, got %d", ErrInvalidConfiguration, p.MinPts)
	}
	if !p.Metric.Valid() {
		return fmt.Errorf("%w: metric not initialised, use NewMetric", ErrInvalidConfiguration)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("eps=%g min_pts=%d metric=%s", p.Eps, p.MinPts, p.Metric)
}
