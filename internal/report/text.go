// Package report formats clustering results for people: a plain-text summary
// for consoles and serial terminals, JSON, and scatter charts.
//
// Nothing here computes statistics; every figure comes from
// dbscan.QualityReport or dbscan.Result.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/dbscan/internal/dbscan"
)

// WriteText writes the human-readable summary of rep to w in a single Write.
func WriteText(w io.Writer, rep *dbscan.QualityReport) error {
	var buf bytes.Buffer

	if rep.AverageDistance != nil {
		fmt.Fprintf(&buf, "Average distance : %f\n", *rep.AverageDistance)
	}
	fmt.Fprintf(&buf, "Created %d clusters.\n", rep.NumClusters)
	for _, c := range rep.Clusters {
		fmt.Fprintf(&buf, "Cluster %d : %d points\n", c.ID, c.Size)
		fmt.Fprintf(&buf, "\tCentroid: %s\n", formatVector(c.Centroid))
		fmt.Fprintf(&buf, "\tTightness = %.3f\n", c.Tightness)
	}
	fmt.Fprintf(&buf, "\nSeparation = %s\n", formatOptional(rep.Separation))
	fmt.Fprintf(&buf, "Davies-Bouldin index = %s\n", formatOptional(rep.DaviesBouldin))
	fmt.Fprintf(&buf, "%d noise points\n", rep.NumNoise)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *dbscan.QualityReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WritePartition writes one line per slot: "noise: 3" or "cluster 1: 0 1 2".
func WritePartition(w io.Writer, p dbscan.Partition) error {
	var buf bytes.Buffer
	for slot, members := range p {
		idx := make([]string, len(members))
		for i, m := range members {
			idx[i] = fmt.Sprint(m)
		}
		fmt.Fprintf(&buf, "%s: %s\n", seriesName(slot), strings.Join(idx, " "))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%f", x)
	}
	return strings.Join(parts, " ")
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *v)
}

func seriesName(slot int) string {
	if slot == dbscan.NoiseSlot {
		return "noise"
	}
	return fmt.Sprintf("cluster %d", slot)
}
