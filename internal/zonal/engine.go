package zonal

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/terrametric/zonal.report/internal/raster"
)

// Options configures an Engine.
type Options struct {
	// BandLabels are display names for the raster bands, in band order.
	// When set, the count must match every processed raster's band count.
	// When empty, positional band_<n> labels apply.
	BandLabels []string

	// Logf receives progress and warning diagnostics. Nil discards them.
	Logf Logf
}

// Engine runs the statistics pipeline over one raster or a dated sequence
// of rasters. It is single-threaded: rasters are opened, fully reduced and
// closed strictly one after another.
type Engine struct {
	labels []string
	logf   Logf
}

// New creates an Engine.
func New(opts Options) *Engine {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Engine{labels: opts.BandLabels, logf: logf}
}

// ProcessSingle compiles one statistics record per geometry from an opened
// raster. The caller owns the dataset's lifecycle.
func (e *Engine) ProcessSingle(ds raster.Dataset, geoms []orb.Geometry) ([]Record, error) {
	if err := e.checkLabels(ds); err != nil {
		return nil, err
	}
	return CompileRaster(ds, geoms, e.labels, e.logf), nil
}

// ProcessSeries folds every raster, in order, into the per-feature series
// arena: one entry per feature per raster, dated by the raster's temporal
// key. Rasters that fail to open are fatal; per-geometry extraction
// failures are recovered inside compilation.
func (e *Engine) ProcessSeries(open raster.Opener, paths []string, geoms []orb.Geometry, arena *Arena) error {
	if arena.Len() != len(geoms) {
		return fmt.Errorf("arena holds %d features but %d geometries were given", arena.Len(), len(geoms))
	}

	seen := make(map[string]bool, len(paths))
	for i, path := range paths {
		e.logf("[%d/%d] Processing raster: %s", i+1, len(paths), path)
		if err := e.processOne(open, path, geoms, arena, seen); err != nil {
			return err
		}
	}
	return nil
}

// processOne scopes one raster's lifetime: opened, reduced, appended,
// closed before the next raster is considered.
func (e *Engine) processOne(open raster.Opener, path string, geoms []orb.Geometry, arena *Arena, seen map[string]bool) error {
	ds, err := open(path)
	if err != nil {
		return fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	defer ds.Close()

	if err := e.checkLabels(ds); err != nil {
		return err
	}

	records := CompileRaster(ds, geoms, e.labels, e.logf)

	key := DateKey(path)
	if seen[key] {
		e.logf("Duplicate date key %s from %s; appending another entry", key, path)
	}
	seen[key] = true

	for fi, rec := range records {
		entry := make(Entry, len(rec)+1)
		entry["date"] = key
		for k, v := range rec {
			entry[k] = v
		}
		arena.Append(fi, entry)
	}
	return nil
}

func (e *Engine) checkLabels(ds raster.Dataset) error {
	if len(e.labels) > 0 && len(e.labels) != ds.Bands() {
		return fmt.Errorf("%d band labels given but raster %s has %d bands",
			len(e.labels), ds.Path(), ds.Bands())
	}
	return nil
}
