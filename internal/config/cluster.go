package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/dbscan/internal/dbscan"
)

// DefaultConfigPath is the path to the canonical clustering defaults file.
const DefaultConfigPath = "config/dbscan.defaults.json"

// Fallbacks used by the Get* accessors when a field is absent.
const (
	defaultEpsilon    = dbscan.DefaultEps
	defaultMinPts     = dbscan.DefaultMinPts
	defaultMetric     = "euclidean"
	defaultMinkowskiP = dbscan.DefaultMinkowskiP
	defaultBaudRate   = 115200
)

// ClusterConfig is the on-disk clustering configuration. Every field is
// optional; absent fields fall back to the defaults returned by the Get*
// methods, so partial configs are safe.
type ClusterConfig struct {
	Epsilon    *float64 `json:"epsilon,omitempty"`
	MinPts     *int     `json:"min_pts,omitempty"`
	Metric     *string  `json:"metric,omitempty"`
	MinkowskiP *float64 `json:"minkowski_p,omitempty"` // Used only when metric is minkowski

	// Report sink (optional)
	SerialPort     *string `json:"serial_port,omitempty"`
	SerialBaudRate *int    `json:"serial_baud_rate,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyClusterConfig returns a ClusterConfig with all fields set to nil.
func EmptyClusterConfig() *ClusterConfig {
	return &ClusterConfig{}
}

// DefaultClusterConfig returns a ClusterConfig with every clustering field
// populated with its default.
func DefaultClusterConfig() *ClusterConfig {
	return &ClusterConfig{
		Epsilon:    ptrFloat64(defaultEpsilon),
		MinPts:     ptrInt(defaultMinPts),
		Metric:     ptrString(defaultMetric),
		MinkowskiP: ptrFloat64(defaultMinkowskiP),
	}
}

// LoadClusterConfig loads a ClusterConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyClusterConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ClusterConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadClusterConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set. The clustering fields are checked
// by building dbscan.Params, so the rules match the engine's exactly.
func (c *ClusterConfig) Validate() error {
	if _, err := c.ToParams(); err != nil {
		return err
	}
	if c.SerialBaudRate != nil && *c.SerialBaudRate <= 0 {
		return fmt.Errorf("serial_baud_rate must be positive, got %d", *c.SerialBaudRate)
	}
	return nil
}

// ToParams converts the config into validated dbscan.Params.
func (c *ClusterConfig) ToParams() (dbscan.Params, error) {
	kind, err := dbscan.ParseMetricKind(c.GetMetric())
	if err != nil {
		return dbscan.Params{}, err
	}
	metric, err := dbscan.NewMetric(kind, c.GetMinkowskiP())
	if err != nil {
		return dbscan.Params{}, err
	}
	params := dbscan.Params{
		Eps:    c.GetEpsilon(),
		MinPts: c.GetMinPts(),
		Metric: metric,
	}
	if err := params.Validate(); err != nil {
		return dbscan.Params{}, err
	}
	return params, nil
}

// Merge overlays every non-nil field of other onto c.
func (c *ClusterConfig) Merge(other *ClusterConfig) {
	if other == nil {
		return
	}
	if other.Epsilon != nil {
		c.Epsilon = other.Epsilon
	}
	if other.MinPts != nil {
		c.MinPts = other.MinPts
	}
	if other.Metric != nil {
		c.Metric = other.Metric
	}
	if other.MinkowskiP != nil {
		c.MinkowskiP = other.MinkowskiP
	}
	if other.SerialPort != nil {
		c.SerialPort = other.SerialPort
	}
	if other.SerialBaudRate != nil {
		c.SerialBaudRate = other.SerialBaudRate
	}
}

// GetEpsilon returns the epsilon value or the default.
func (c *ClusterConfig) GetEpsilon() float64 {
	if c.Epsilon == nil {
		return defaultEpsilon
	}
	return *c.Epsilon
}

// GetMinPts returns the min_pts value or the default.
func (c *ClusterConfig) GetMinPts() int {
	if c.MinPts == nil {
		return defaultMinPts
	}
	return *c.MinPts
}

// GetMetric returns the metric name or the default.
func (c *ClusterConfig) GetMetric() string {
	if c.Metric == nil || *c.Metric == "" {
		return defaultMetric
	}
	return *c.Metric
}

// GetMinkowskiP returns the minkowski_p value or the default.
func (c *ClusterConfig) GetMinkowskiP() float64 {
	if c.MinkowskiP == nil || math.IsNaN(*c.MinkowskiP) {
		return defaultMinkowskiP
	}
	return *c.MinkowskiP
}

// GetSerialPort returns the serial port path, or "" when reports are not
// sent to a serial console.
func (c *ClusterConfig) GetSerialPort() string {
	if c.SerialPort == nil {
		return ""
	}
	return *c.SerialPort
}

// GetSerialBaudRate returns the serial_baud_rate value or the default.
func (c *ClusterConfig) GetSerialBaudRate() int {
	if c.SerialBaudRate == nil {
		return defaultBaudRate
	}
	return *c.SerialBaudRate
}
