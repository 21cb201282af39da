package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

// RegisterDrivers registers the GDAL drivers. Safe to call more than once;
// binaries call it before their first OpenGDAL.
func RegisterDrivers() {
	registerOnce.Do(godal.RegisterAll)
}

// gdalDataset adapts a godal dataset to the Dataset interface. The nodata
// sentinel is taken from the first band, matching the one-sentinel-per-file
// convention of the supported products.
type gdalDataset struct {
	path   string
	ds     *godal.Dataset
	gt     [6]float64
	nodata *float64
}

// OpenGDAL opens a raster file read-only through GDAL.
func OpenGDAL(path string) (Dataset, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to read geotransform of %s: %w", path, err)
	}

	g := &gdalDataset{path: path, ds: ds, gt: gt}
	if bands := ds.Bands(); len(bands) > 0 {
		if v, ok := bands[0].NoData(); ok {
			g.nodata = &v
		}
	}
	return g, nil
}

func (g *gdalDataset) Path() string { return g.path }

func (g *gdalDataset) Size() (int, int) {
	s := g.ds.Structure()
	return s.SizeX, s.SizeY
}

func (g *gdalDataset) Bands() int {
	return g.ds.Structure().NBands
}

func (g *gdalDataset) NoData() *float64 {
	if g.nodata == nil {
		return nil
	}
	v := *g.nodata
	return &v
}

func (g *gdalDataset) GeoTransform() [6]float64 { return g.gt }

func (g *gdalDataset) ReadWindow(band int, w Window) ([]float64, error) {
	if band < 1 || band > g.Bands() {
		return nil, fmt.Errorf("band %d out of range (raster has %d bands)", band, g.Bands())
	}
	if w.Width <= 0 || w.Height <= 0 {
		return nil, fmt.Errorf("empty read window %+v", w)
	}

	buf := make([]float64, w.Width*w.Height)
	b := g.ds.Bands()[band-1]
	if err := b.Read(w.Col, w.Row, buf, w.Width, w.Height); err != nil {
		return nil, fmt.Errorf("failed to read band %d window at (%d,%d): %w", band, w.Col, w.Row, err)
	}
	return buf, nil
}

func (g *gdalDataset) Close() error {
	return g.ds.Close()
}
