// Package resample aligns rasters onto a common reference grid so a scene
// archive with mixed resolutions or projections can feed the statistics
// pipeline pixel-for-pixel.
package resample

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/airbusgeo/godal"

	"github.com/terrametric/zonal.report/internal/raster"
)

// Align warps srcPath onto the grid of refPath: same SRS, bounds, and
// resolution, nearest-neighbour resampled, written as a tiled LZW GTiff at
// outPath.
func Align(srcPath, refPath, outPath string) error {
	raster.RegisterDrivers()

	ref, err := godal.Open(refPath)
	if err != nil {
		return fmt.Errorf("failed to open reference %s: %w", refPath, err)
	}
	defer ref.Close()

	proj := ref.Projection()
	if proj == "" {
		return fmt.Errorf("reference %s has no projection", refPath)
	}
	gt, err := ref.GeoTransform()
	if err != nil {
		return fmt.Errorf("failed to read reference geotransform: %w", err)
	}
	st := ref.Structure()

	switches, err := alignSwitches(proj, gt, st.SizeX, st.SizeY)
	if err != nil {
		return fmt.Errorf("reference %s: %w", refPath, err)
	}

	src, err := godal.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", srcPath, err)
	}
	defer src.Close()

	out, err := src.Warp(outPath, switches)
	if err != nil {
		return fmt.Errorf("failed to warp %s: %w", srcPath, err)
	}
	return out.Close()
}

// alignSwitches assembles the gdalwarp switches that pin the output to the
// reference grid. The reference must be axis aligned.
func alignSwitches(proj string, gt [6]float64, width, height int) ([]string, error) {
	if !raster.IsAxisAligned(gt) {
		return nil, fmt.Errorf("rotated geotransform is not supported")
	}

	xmin := gt[0]
	ymax := gt[3]
	xmax := xmin + float64(width)*gt[1]
	ymin := ymax + float64(height)*gt[5]

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	return []string{
		"-t_srs", proj,
		"-te", f(xmin), f(ymin), f(xmax), f(ymax),
		"-tr", f(gt[1]), f(math.Abs(gt[5])),
		"-r", "near",
		"-of", "GTiff",
		"-ot", "Float32",
		"-co", "TILED=YES",
		"-co", "COMPRESS=LZW",
		"-co", "BIGTIFF=IF_SAFER",
	}, nil
}

// BuildOverviews adds a nearest-neighbour overview pyramid to the raster,
// power-of-two levels down to roughly 64 pixels on the short side.
func BuildOverviews(path string) error {
	raster.RegisterDrivers()

	ds, err := godal.Open(path, godal.Update())
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer ds.Close()

	st := ds.Structure()
	minDim := st.SizeX
	if st.SizeY < minDim {
		minDim = st.SizeY
	}

	levels := OverviewLevels(minDim)
	if len(levels) == 0 {
		return nil
	}

	if err := ds.BuildOverviews(godal.Levels(levels...), godal.Resampling(godal.Nearest)); err != nil {
		return fmt.Errorf("failed to build overviews for %s: %w", path, err)
	}
	return nil
}

// OverviewLevels returns power-of-two decimation levels for a raster whose
// short side is minDim, keeping every level at 64 pixels or more.
func OverviewLevels(minDim int) []int {
	var levels []int
	for level := 2; minDim/level >= 64; level *= 2 {
		levels = append(levels, level)
	}
	return levels
}

// OutputPath names the aligned copy of src: the base name gains a _matched
// suffix before the extension. When dir is empty the copy sits next to the
// source.
func OutputPath(src, dir string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_matched" + ext
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name)
}
