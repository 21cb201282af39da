package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RunConfig represents the optional configuration file for a statistics
// run. Every field mirrors a command line flag; flags win when both are
// given.
type RunConfig struct {
	// Vector input params
	IDField           *string  `json:"id_field,omitempty"`
	SimplifyTolerance *float64 `json:"simplify_tolerance,omitempty"`

	// Raster params
	BandLabels []string `json:"band_labels,omitempty"`

	// Output params
	CSVDir    *string `json:"csv_dir,omitempty"`
	ChartsOut *string `json:"charts_out,omitempty"`

	// Catalog params
	CatalogPath *string `json:"catalog_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file fall back to the Get*
// defaults, so partial configs are safe.
func LoadRunConfig(path string) (*RunConfig, error) {
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

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RunConfig) Validate() error {
	if c.SimplifyTolerance != nil && *c.SimplifyTolerance < 0 {
		return fmt.Errorf("simplify_tolerance must be non-negative, got %f", *c.SimplifyTolerance)
	}

	if c.IDField != nil && *c.IDField == "" {
		return fmt.Errorf("id_field must not be empty when set")
	}

	if c.CSVDir != nil && *c.CSVDir == "" {
		return fmt.Errorf("csv_dir must not be empty when set")
	}

	for i, label := range c.BandLabels {
		if label == "" {
			return fmt.Errorf("band_labels[%d] must not be empty", i)
		}
	}

	return nil
}

// GetIDField returns the id_field value or the default.
func (c *RunConfig) GetIDField() string {
	if c.IDField == nil {
		return "id" // default
	}
	return *c.IDField
}

// GetSimplifyTolerance returns the simplify_tolerance value or the default.
func (c *RunConfig) GetSimplifyTolerance() float64 {
	if c.SimplifyTolerance == nil {
		return 0 // default: simplification disabled
	}
	return *c.SimplifyTolerance
}

// GetCSVDir returns the csv_dir value or the default.
func (c *RunConfig) GetCSVDir() string {
	if c.CSVDir == nil {
		return "timeseries_csv" // default
	}
	return *c.CSVDir
}

// GetChartsOut returns the charts_out value or the default.
func (c *RunConfig) GetChartsOut() string {
	if c.ChartsOut == nil {
		return "" // default: charts disabled
	}
	return *c.ChartsOut
}

// GetCatalogPath returns the catalog_path value or the default.
func (c *RunConfig) GetCatalogPath() string {
	if c.CatalogPath == nil {
		return "" // default: catalog disabled
	}
	return *c.CatalogPath
}

// GetBandLabels returns the band_labels value or nil when unset.
func (c *RunConfig) GetBandLabels() []string {
	return c.BandLabels
}
