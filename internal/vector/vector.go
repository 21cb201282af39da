// Package vector loads, mutates and saves GeoJSON feature collections.
// Feature order is the join key for everything downstream: position i in
// the collection matches position i in every statistics product.
package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/terrametric/zonal.report/internal/fsutil"
)

// Collection wraps a GeoJSON feature collection with index-addressed access.
type Collection struct {
	fc *geojson.FeatureCollection
}

// Load reads a GeoJSON feature collection.
func Load(fs fsutil.FileSystem, path string) (*Collection, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry file %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Collection{fc: fc}, nil
}

// Len returns the number of features.
func (c *Collection) Len() int { return len(c.fc.Features) }

// Geometry returns feature i's geometry.
func (c *Collection) Geometry(i int) orb.Geometry {
	return c.fc.Features[i].Geometry
}

// Geometries returns every feature's geometry in collection order.
func (c *Collection) Geometries() []orb.Geometry {
	geoms := make([]orb.Geometry, len(c.fc.Features))
	for i, f := range c.fc.Features {
		geoms[i] = f.Geometry
	}
	return geoms
}

// Property returns feature i's property value.
func (c *Collection) Property(i int, key string) (interface{}, bool) {
	f := c.fc.Features[i]
	if f.Properties == nil {
		return nil, false
	}
	v, ok := f.Properties[key]
	return v, ok
}

// SetProperty sets a property on feature i.
func (c *Collection) SetProperty(i int, key string, value interface{}) {
	f := c.fc.Features[i]
	if f.Properties == nil {
		f.Properties = geojson.Properties{}
	}
	f.Properties[key] = value
}

// DropProperty removes a property from every feature.
func (c *Collection) DropProperty(key string) {
	for _, f := range c.fc.Features {
		if f.Properties != nil {
			delete(f.Properties, key)
		}
	}
}

// FeatureID names feature i for table output: the identifier field's value
// when present and non-empty, else the positional fallback.
func (c *Collection) FeatureID(i int, field string) string {
	if v, ok := c.Property(i, field); ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			return s
		}
	}
	return fmt.Sprintf("feature_%d", i)
}

// Save writes the collection as GeoJSON, creating parent directories.
func (c *Collection) Save(fs fsutil.FileSystem, path string) error {
	data, err := c.fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal feature collection: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := fs.WriteFile(path, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
