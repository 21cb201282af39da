package zonal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/terrametric/zonal.report/internal/raster"
)

func TestCompileRaster_MergesBandsByKey(t *testing.T) {
	ds, err := raster.NewMemoryDataset("mem://two-band.tif", 2, 2,
		[6]float64{0, 1, 0, 2, 0, -1}, nil,
		[]float64{1, 2, 3, 4},
		[]float64{10, 20, 30, 40})
	if err != nil {
		t.Fatalf("NewMemoryDataset failed: %v", err)
	}
	defer ds.Close()

	geoms := []orb.Geometry{square(0, 0, 2, 2)}
	records := CompileRaster(ds, geoms, []string{"ndvi", "evi"}, nil)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]

	if rec["ndvi_mean"] != 2.5 {
		t.Errorf("ndvi_mean = %v, want 2.5", rec["ndvi_mean"])
	}
	if rec["evi_mean"] != 25.0 {
		t.Errorf("evi_mean = %v, want 25", rec["evi_mean"])
	}
	// Both bands' fields live in one merged record.
	if len(rec) != 14 {
		t.Errorf("record has %d fields, want 14", len(rec))
	}
}

func TestCompileRaster_OneRecordPerFeatureEvenOnFailure(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	geoms := []orb.Geometry{
		square(0, 0, 2, 2),     // covered
		square(50, 50, 60, 60), // disjoint: extraction fails
	}

	var warnings []string
	logf := func(format string, v ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	}

	records := CompileRaster(ds, geoms, nil, logf)

	if len(records) != 2 {
		t.Fatalf("got %d records, want one per feature", len(records))
	}

	// The failed feature carries the explicit no-pixels record.
	failed := records[1]
	if failed["band_1_min"] != nil || failed["band_1_mean"] != nil {
		t.Errorf("failed feature should have null measurements, got %v", failed)
	}
	if failed["band_1_count"] != 0 || failed["band_1_valid"] != 0 || failed["band_1_invalid"] != 0 {
		t.Errorf("failed feature counts = %v/%v/%v, want 0/0/0",
			failed["band_1_count"], failed["band_1_valid"], failed["band_1_invalid"])
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "Failed to mask geometry 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming geometry 1, got %v", warnings)
	}
}

func TestCompileRaster_CountInvariantAcrossFeatures(t *testing.T) {
	nodata := -9999.0
	ds := testGrid(t, &nodata)
	defer ds.Close()

	geoms := []orb.Geometry{
		square(0, 0, 2, 2),
		square(0, 1, 2, 2),
		square(0.05, 0.05, 0.2, 0.2),
	}
	records := CompileRaster(ds, geoms, nil, nil)

	for i, rec := range records {
		count := rec["band_1_count"].(int)
		valid := rec["band_1_valid"].(int)
		invalid := rec["band_1_invalid"].(int)
		if count != valid+invalid {
			t.Errorf("feature %d: count %d != valid %d + invalid %d", i, count, valid, invalid)
		}
	}
}
