// Package raster abstracts read access to georeferenced raster datasets.
// The GDAL-backed implementation is the production path; MemoryDataset
// serves tests and synthetic inputs.
package raster

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrNoOverlap reports that a geometry's bounding region does not intersect
// the raster extent.
var ErrNoOverlap = errors.New("geometry does not overlap raster extent")

// Window is a pixel-space read region. Col/Row address the top-left pixel.
type Window struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Dataset is a read-only view of one raster file. Band indexes are 1-based,
// following the underlying format convention. Implementations are not safe
// for concurrent use; the engine reads sequentially.
type Dataset interface {
	// Path returns the origin path of the dataset.
	Path() string

	// Size returns raster width and height in pixels.
	Size() (width, height int)

	// Bands returns the number of bands.
	Bands() int

	// NoData returns the dataset's nodata sentinel, or nil when undeclared.
	NoData() *float64

	// GeoTransform returns the affine transform in GDAL order:
	// [originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight].
	GeoTransform() [6]float64

	// ReadWindow reads one band's pixels for the window, row-major.
	ReadWindow(band int, w Window) ([]float64, error)

	// Close releases the dataset.
	Close() error
}

// Opener opens a raster by path.
type Opener func(path string) (Dataset, error)

// IsAxisAligned reports whether the transform has no rotation terms.
func IsAxisAligned(gt [6]float64) bool {
	return gt[2] == 0 && gt[4] == 0
}

// PixelCenter returns the georeferenced center of pixel (col, row).
func PixelCenter(gt [6]float64, col, row int) (x, y float64) {
	fc := float64(col) + 0.5
	fr := float64(row) + 0.5
	x = gt[0] + fc*gt[1] + fr*gt[2]
	y = gt[3] + fc*gt[4] + fr*gt[5]
	return x, y
}

// WindowForBound computes the pixel window enclosing the bound on an
// axis-aligned grid, clipped to the raster extent. Returns false when the
// bound and extent are disjoint.
func WindowForBound(gt [6]float64, width, height int, b orb.Bound) (Window, bool) {
	c0 := (b.Min[0] - gt[0]) / gt[1]
	c1 := (b.Max[0] - gt[0]) / gt[1]
	r0 := (b.Min[1] - gt[3]) / gt[5]
	r1 := (b.Max[1] - gt[3]) / gt[5]

	colMin := int(math.Floor(math.Min(c0, c1)))
	colMax := int(math.Ceil(math.Max(c0, c1)))
	rowMin := int(math.Floor(math.Min(r0, r1)))
	rowMax := int(math.Ceil(math.Max(r0, r1)))

	if colMin < 0 {
		colMin = 0
	}
	if rowMin < 0 {
		rowMin = 0
	}
	if colMax > width {
		colMax = width
	}
	if rowMax > height {
		rowMax = height
	}

	if colMax <= colMin || rowMax <= rowMin {
		return Window{}, false
	}

	return Window{
		Col:    colMin,
		Row:    rowMin,
		Width:  colMax - colMin,
		Height: rowMax - rowMin,
	}, true
}
