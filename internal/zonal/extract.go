package zonal

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/terrametric/zonal.report/internal/raster"
)

// ExtractPixels returns the values of the band's pixels covered by the
// geometry: the enclosing window is read, then only pixels whose center
// lies inside or on the geometry boundary are retained. An empty result is
// legitimate (the geometry overlaps the extent without covering a center).
//
// Failure modes — no overlap with the raster extent, a rotated grid, an
// unsupported geometry type, or a band read error — fail this
// (band, geometry) pair only; callers recover them per geometry.
func ExtractPixels(ds raster.Dataset, band int, geom orb.Geometry) ([]float64, error) {
	switch geom.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", geom.GeoJSONType())
	}

	gt := ds.GeoTransform()
	if !raster.IsAxisAligned(gt) {
		return nil, fmt.Errorf("raster %s has a rotated geotransform", ds.Path())
	}

	width, height := ds.Size()
	win, ok := raster.WindowForBound(gt, width, height, geom.Bound())
	if !ok {
		return nil, raster.ErrNoOverlap
	}

	values, err := ds.ReadWindow(band, win)
	if err != nil {
		return nil, fmt.Errorf("failed to read band %d: %w", band, err)
	}

	covered := make([]float64, 0, len(values))
	for r := 0; r < win.Height; r++ {
		for c := 0; c < win.Width; c++ {
			x, y := raster.PixelCenter(gt, win.Col+c, win.Row+r)
			if geometryContains(geom, orb.Point{x, y}) {
				covered = append(covered, values[r*win.Width+c])
			}
		}
	}
	return covered, nil
}

// geometryContains tests pixel-center membership. Boundary points count as
// inside for both supported types.
func geometryContains(geom orb.Geometry, pt orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}
