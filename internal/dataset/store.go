package dataset

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no dataset with the requested name exists.
var ErrNotFound = errors.New("dataset: not found")

// Info describes a stored dataset.
type Info struct {
	DatasetID  string `json:"dataset_id"`
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
	PointCount int    `json:"point_count"`
	CreatedAt  int64  `json:"created_at"`
}

// Store keeps named datasets in SQLite. Points are stored as JSON arrays
// keyed by their index, so Load returns them in their original order.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at path and applies the
// schema migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database and applies the schema migrations.
func NewStore(db *sql.DB) (*Store, error) {
	if err := migrateUp(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (uint, error) {
	version, dirty, err := schemaVersion(s.db)
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// Save stores points under name, replacing any dataset with the same name.
// Points must be non-empty and share one dimension.
func (s *Store) Save(name string, points [][]float64) (*Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("dataset name is required")
	}
	if len(points) == 0 {
		return nil, ErrNoRows
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim || dim == 0 {
			return nil, fmt.Errorf("point %d has %d features, expected %d", i, len(p), dim)
		}
	}

	info := &Info{
		DatasetID:  uuid.New().String(),
		Name:       name,
		Dimensions: dim,
		PointCount: len(points),
		CreatedAt:  time.Now().UnixNano(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByName(tx, name); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		INSERT INTO datasets (dataset_id, name, dimensions, point_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		info.DatasetID, info.Name, info.Dimensions, info.PointCount, info.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO dataset_points (dataset_id, point_index, features) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert point: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		features, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode point %d: %w", i, err)
		}
		if _, err := stmt.Exec(info.DatasetID, i, string(features)); err != nil {
			return nil, fmt.Errorf("insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return info, nil
}

// Get returns the metadata for the named dataset.
func (s *Store) Get(name string) (*Info, error) {
	var info Info
	err := s.db.QueryRow(`
		SELECT dataset_id, name, dimensions, point_count, created_at
		FROM datasets WHERE name = ?`, name,
	).Scan(&info.DatasetID, &info.Name, &info.Dimensions, &info.PointCount, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	return &info, nil
}

// Load returns the points of the named dataset in index order.
func (s *Store) Load(name string) ([][]float64, error) {
	info, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT features FROM dataset_points
		WHERE dataset_id = ?
		ORDER BY point_index`, info.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	points := make([][]float64, 0, info.PointCount)
	for rows.Next() {
		var features string
		if err := rows.Scan(&features); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		var v []float64
		if err := json.Unmarshal([]byte(features), &v); err != nil {
			return nil, fmt.Errorf("decode point %d: %w", len(points), err)
		}
		points = append(points, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(points) != info.PointCount {
		return nil, fmt.Errorf("dataset %q: found %d points, expected %d", name, len(points), info.PointCount)
	}
	return points, nil
}

// List returns every stored dataset ordered by name.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`
		SELECT dataset_id, name, dimensions, point_count, created_at
		FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.DatasetID, &info.Name, &info.Dimensions, &info.PointCount, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the named dataset and its points.
func (s *Store) Delete(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`SELECT dataset_id FROM datasets WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("query dataset: %w", err)
	}
	if err := deleteByName(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteByName(tx *sql.Tx, name string) error {
	if _, err := tx.Exec(`
		DELETE FROM dataset_points
		WHERE dataset_id IN (SELECT dataset_id FROM datasets WHERE name = ?)`, name); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}
