package zonal

import (
	"github.com/paulmach/orb"

	"github.com/terrametric/zonal.report/internal/raster"
)

// CompileRaster produces exactly one Record per geometry, in collection
// order, merging every band's statistics by field name. Bands are processed
// band-by-band across all geometries. A failed extraction is recovered
// locally: the geometry gets that band's all-null/zero statistics and a
// warning on the sink, and the run continues.
func CompileRaster(ds raster.Dataset, geoms []orb.Geometry, labels []string, logf Logf) []Record {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	records := make([]Record, len(geoms))
	for i := range records {
		records[i] = make(Record)
	}

	nodata := ds.NoData()
	for band := 1; band <= ds.Bands(); band++ {
		label := BandLabel(labels, band)
		logf("Processing %s ...", label)

		for gi, geom := range geoms {
			var bs BandStats
			pixels, err := ExtractPixels(ds, band, geom)
			if err != nil {
				logf("Failed to mask geometry %d: %v", gi, err)
				// bs stays the zero record: nulls, count 0.
			} else {
				valid, _ := Classify(pixels, nodata)
				bs = Reduce(valid, len(pixels))
			}

			for k, v := range bs.Fields(label) {
				records[gi][k] = v
			}
		}
	}

	return records
}
