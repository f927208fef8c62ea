// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// WriteFile writes content to name inside a fresh temp directory and returns
// the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TwoGroupsWithOutlier returns two tight 3-point groups and one far outlier
// at index 3. With eps=1.5 and minPts=3 the groups become clusters
// {0,1,2} and {4,5,6} and point 3 is noise.
func TwoGroupsWithOutlier() [][]float64 {
	return [][]float64{
		{0, 0}, {0, 1}, {1, 0},
		{50, 50},
		{10, 10}, {10, 11}, {11, 10},
	}
}

// TwoGroupsCSV is TwoGroupsWithOutlier as CSV with a header row.
const TwoGroupsCSV = `x,y
0,0
0,1
1,0
50,50
10,10
10,11
11,10
`
