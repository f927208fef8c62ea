package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoRows indicates a CSV source contained no data rows.
	ErrNoRows = errors.New("dataset: no data rows")
	// ErrNonFinite indicates a NaN or infinite feature value.
	ErrNonFinite = errors.New("dataset: feature value is not finite")
)

// LoadCSV reads a dataset from the CSV file at path. See ReadCSV.
func LoadCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses one feature vector per row. Blank lines and lines starting
// with '#' are skipped. The first row is taken as a header only when none of
// its fields is numeric; a first row mixing numbers and text is an error.
// Every row must have the same number of columns.
func ReadCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var points [][]float64
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		if row == 1 && isHeader(record) {
			continue
		}
		v, err := ParseVector(record)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		points = append(points, v)
	}

	if len(points) == 0 {
		return nil, ErrNoRows
	}
	return points, nil
}

// isHeader reports whether every field is a non-empty, non-numeric label.
func isHeader(record []string) bool {
	for _, f := range record {
		f = strings.TrimSpace(f)
		if f == "" {
			return false
		}
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return false
		}
	}
	return true
}

// ParseVector converts string fields to a feature vector. NaN and infinite
// values are rejected.
func ParseVector(fields []string) ([]float64, error) {
	if len(fields) == 0 {
		return nil, errors.New("empty vector")
	}
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("field %d: %w", i+1, ErrNonFinite)
		}
		v[i] = x
	}
	return v, nil
}

// ParseVectorString parses a comma-separated vector such as "1.5,2,-3".
func ParseVectorString(s string) ([]float64, error) {
	return ParseVector(strings.Split(s, ","))
}

// WriteCSV writes points one per row without a header.
func WriteCSV(w io.Writer, points [][]float64) error {
	cw := csv.NewWriter(w)
	for _, p := range points {
		record := make([]string, len(p))
		for i, x := range p {
			record[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
