// Package zonal computes per-geometry raster statistics and assembles them
// into per-feature time series.
//
// The pipeline is a sequential, single-pass reduction: pixels covered by a
// geometry are extracted from one band (extract.go), partitioned into
// valid/invalid against the raster's nodata sentinel (classify.go), reduced
// to summary statistics (stats.go), and merged band-by-band into one record
// per feature (compile.go). Across multiple rasters the engine (engine.go)
// folds each raster's records into a per-feature series held in an Arena
// (arena.go), keyed by a date derived from the raster filename (datekey.go).
package zonal

// Logf is the diagnostics sink injected into the engine. A nil sink is
// replaced with a no-op; the package never writes to a global logger.
type Logf func(format string, v ...interface{})

// Record maps statistics field names (<band label>_<metric>) to values.
// Numeric fields are float64 or int; absent measurements are untyped nil so
// they serialize as JSON null.
type Record map[string]interface{}

// Entry is a Record plus a "date" field, one element of a feature's series.
type Entry map[string]interface{}
