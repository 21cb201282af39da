package zonal

import (
	"errors"
	"sort"
	"testing"

	"github.com/paulmach/orb"

	"github.com/terrametric/zonal.report/internal/raster"
)

// testGrid returns a 2x2 dataset with 1-unit pixels, origin (0,2):
// centers (0.5,1.5) (1.5,1.5) / (0.5,0.5) (1.5,0.5), values 1 2 / -9999 4.
func testGrid(t *testing.T, nodata *float64) raster.Dataset {
	t.Helper()
	ds, err := raster.NewMemoryDataset("mem://grid.tif", 2, 2,
		[6]float64{0, 1, 0, 2, 0, -1}, nodata,
		[]float64{1, 2, -9999, 4})
	if err != nil {
		t.Fatalf("NewMemoryDataset failed: %v", err)
	}
	return ds
}

func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}

func TestExtractPixels_FullCoverage(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	got, err := ExtractPixels(ds, 1, square(0, 0, 2, 2))
	if err != nil {
		t.Fatalf("ExtractPixels failed: %v", err)
	}

	sort.Float64s(got)
	want := []float64{-9999, 1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("got %d pixels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtractPixels_PartialCoverageExcludesOutside(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	// Top half only: both bottom-row centers fall outside and must not
	// appear even though they sit inside the bounding window.
	got, err := ExtractPixels(ds, 1, square(0, 1, 2, 2))
	if err != nil {
		t.Fatalf("ExtractPixels failed: %v", err)
	}

	sort.Float64s(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestExtractPixels_CentersOnBoundaryAreRetained(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	// The ring's corners are exactly the four pixel centers.
	got, err := ExtractPixels(ds, 1, square(0.5, 0.5, 1.5, 1.5))
	if err != nil {
		t.Fatalf("ExtractPixels failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d pixels, want 4 (boundary centers count as covered)", len(got))
	}
}

func TestExtractPixels_EmptyCoverageIsNotAnError(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	// Overlaps the extent but covers no pixel center.
	got, err := ExtractPixels(ds, 1, square(0.05, 0.05, 0.2, 0.2))
	if err != nil {
		t.Fatalf("ExtractPixels failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no pixels", got)
	}
}

func TestExtractPixels_MultiPolygon(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	mp := orb.MultiPolygon{
		square(0, 1, 1, 2), // covers (0.5,1.5) -> 1
		square(1, 0, 2, 1), // covers (1.5,0.5) -> 4
	}
	got, err := ExtractPixels(ds, 1, mp)
	if err != nil {
		t.Fatalf("ExtractPixels failed: %v", err)
	}

	sort.Float64s(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("got %v, want [1 4]", got)
	}
}

func TestExtractPixels_NoOverlap(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	_, err := ExtractPixels(ds, 1, square(10, 10, 12, 12))
	if !errors.Is(err, raster.ErrNoOverlap) {
		t.Errorf("expected ErrNoOverlap, got %v", err)
	}
}

func TestExtractPixels_UnsupportedGeometry(t *testing.T) {
	ds := testGrid(t, nil)
	defer ds.Close()

	_, err := ExtractPixels(ds, 1, orb.LineString{{0, 0}, {1, 1}})
	if err == nil {
		t.Fatal("expected an error for a LineString")
	}
}

func TestExtractPixels_RotatedTransform(t *testing.T) {
	ds, err := raster.NewMemoryDataset("mem://rot.tif", 2, 2,
		[6]float64{0, 1, 0.2, 2, 0, -1}, nil,
		[]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewMemoryDataset failed: %v", err)
	}
	defer ds.Close()

	if _, err := ExtractPixels(ds, 1, square(0, 0, 2, 2)); err == nil {
		t.Fatal("expected an error for a rotated geotransform")
	}
}
