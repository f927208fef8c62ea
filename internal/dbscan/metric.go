package dbscan

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// MetricKind selects the distance function used for neighbourhood queries.
type MetricKind int

const (
	// Euclidean is sqrt(Σ (aᵢ−bᵢ)²).
	Euclidean MetricKind = iota
	// Minkowski is (Σ |aᵢ−bᵢ|^p)^(1/p); Euclidean when p = 2.
	Minkowski
	// Manhattan is Σ |aᵢ−bᵢ|.
	Manhattan
	// Chebyshev is max |aᵢ−bᵢ|.
	Chebyshev
	// Canberra is Σ |aᵢ−bᵢ| / (|aᵢ|+|bᵢ|).
	Canberra
)

// DefaultMinkowskiP is the Minkowski exponent used when none is supplied.
const DefaultMinkowskiP = 1.0

var metricNames = map[MetricKind]string{
	Euclidean: "euclidean",
	Minkowski: "minkowski",
	Manhattan: "manhattan",
	Chebyshev: "chebyshev",
	Canberra:  "canberra",
}

func (k MetricKind) String() string {
	if name, ok := metricNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MetricKind(%d)", int(k))
}

// ParseMetricKind maps a case-insensitive metric name to its MetricKind.
func ParseMetricKind(s string) (MetricKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, n := range metricNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidConfiguration, s)
}

// Metric is a validated distance function. Build it with NewMetric; the
// zero value is not usable.
type Metric struct {
	kind MetricKind
	p    float64
	fn   func(a, b []float64) float64
}

// NewMetric validates kind (and p, for Minkowski) and returns the Metric.
// p is ignored for every kind except Minkowski.
func NewMetric(kind MetricKind, p float64) (Metric, error) {
	m := Metric{kind: kind, p: p}
	switch kind {
	case Euclidean:
		m.fn = func(a, b []float64) float64 { return floats.Distance(a, b, 2) }
	case Minkowski:
		if !(p > 0) || math.IsInf(p, 1) {
			return Metric{}, fmt.Errorf("%w: minkowski exponent must be finite and positive, got %v", ErrInvalidConfiguration, p)
		}
		m.fn = func(a, b []float64) float64 { return floats.Distance(a, b, p) }
	case Manhattan:
		m.fn = func(a, b []float64) float64 { return floats.Distance(a, b, 1) }
	case Chebyshev:
		m.fn = func(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }
	case Canberra:
		m.fn = canberra
	default:
		return Metric{}, fmt.Errorf("%w: unknown metric %s", ErrInvalidConfiguration, kind)
	}
	if kind != Minkowski {
		m.p = 0
	}
	return m, nil
}

// MustMetric is like NewMetric but panics on error. Intended for constants
// and tests.
func MustMetric(kind MetricKind, p float64) Metric {
	m, err := NewMetric(kind, p)
	if err != nil {
		panic(err)
	}
	return m
}

// Kind returns the metric kind.
func (m Metric) Kind() MetricKind { return m.kind }

// P returns the Minkowski exponent, or 0 for other kinds.
func (m Metric) P() float64 { return m.p }

func (m Metric) String() string {
	if m.kind == Minkowski {
		return fmt.Sprintf("minkowski(p=%g)", m.p)
	}
	return m.kind.String()
}

// Valid reports whether m was produced by NewMetric.
func (m Metric) Valid() bool { return m.fn != nil }

// Distance returns the dissimilarity between a and b. It returns
// ErrDimensionMismatch when the vectors differ in length.
func (m Metric) Distance(a, b []float64) (float64, error) {
	if !m.Valid() {
		return 0, fmt.Errorf("%w: metric not initialised", ErrInvalidConfiguration)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return m.fn(a, b), nil
}

// distance skips the length check. Callers guarantee equal dimensions.
func (m Metric) distance(a, b []float64) float64 {
	return m.fn(a, b)
}

// canberra treats a 0/0 term (both components zero) as contributing nothing.
func canberra(a, b []float64) float64 {
	var sum float64
	for i := range a {
		den := math.Abs(a[i]) + math.Abs(b[i])
		if den == 0 {
			continue
		}
		sum += math.Abs(a[i]-b[i]) / den
	}
	return sum
}
