package zonal

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReduce_Basic(t *testing.T) {
	bs := Reduce([]float64{1, 2, 4}, 4)

	if bs.Count != 4 || bs.Valid != 3 || bs.Invalid != 1 {
		t.Fatalf("counts = %d/%d/%d, want 4/3/1", bs.Count, bs.Valid, bs.Invalid)
	}
	if *bs.Min != 1 || *bs.Max != 4 {
		t.Errorf("min/max = %v/%v, want 1/4", *bs.Min, *bs.Max)
	}
	if diff := math.Abs(*bs.Mean - 7.0/3.0); diff > 1e-12 {
		t.Errorf("mean = %v, want 7/3", *bs.Mean)
	}
	// Population std of [1,2,4]: sqrt(14/9).
	if diff := math.Abs(*bs.Std - math.Sqrt(14.0/9.0)); diff > 1e-12 {
		t.Errorf("std = %v, want sqrt(14/9)", *bs.Std)
	}
}

func TestReduce_OrderingProperties(t *testing.T) {
	bs := Reduce([]float64{3.5, -1, 2, 2, 9}, 5)

	if *bs.Min > *bs.Mean || *bs.Mean > *bs.Max {
		t.Errorf("expected min <= mean <= max, got %v <= %v <= %v", *bs.Min, *bs.Mean, *bs.Max)
	}
	if *bs.Std < 0 {
		t.Errorf("std = %v, want >= 0", *bs.Std)
	}
}

func TestReduce_NoValidPixels(t *testing.T) {
	bs := Reduce(nil, 6)

	if bs.Min != nil || bs.Max != nil || bs.Mean != nil || bs.Std != nil {
		t.Error("measurements should be nil with no valid pixels")
	}
	// Count keeps the true extracted total, not zero.
	if bs.Count != 6 || bs.Valid != 0 || bs.Invalid != 6 {
		t.Errorf("counts = %d/%d/%d, want 6/0/6", bs.Count, bs.Valid, bs.Invalid)
	}
}

func TestReduce_SingleValue(t *testing.T) {
	bs := Reduce([]float64{5}, 1)

	if *bs.Min != 5 || *bs.Max != 5 || *bs.Mean != 5 {
		t.Errorf("min/max/mean = %v/%v/%v, want 5/5/5", *bs.Min, *bs.Max, *bs.Mean)
	}
	if *bs.Std != 0 {
		t.Errorf("population std of one value = %v, want 0", *bs.Std)
	}
}

func TestBandStats_Fields(t *testing.T) {
	got := Reduce([]float64{2, 4}, 3).Fields("ndvi")

	want := map[string]interface{}{
		"ndvi_min":     2.0,
		"ndvi_max":     4.0,
		"ndvi_mean":    3.0,
		"ndvi_std":     1.0,
		"ndvi_count":   3,
		"ndvi_valid":   2,
		"ndvi_invalid": 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBandStats_FieldsNulls(t *testing.T) {
	got := BandStats{}.Fields("band_1")

	for _, metric := range []string{"min", "max", "mean", "std"} {
		v, ok := got["band_1_"+metric]
		if !ok {
			t.Errorf("missing key band_1_%s", metric)
			continue
		}
		if v != nil {
			t.Errorf("band_1_%s = %v, want nil", metric, v)
		}
	}
	if got["band_1_count"] != 0 {
		t.Errorf("band_1_count = %v, want 0", got["band_1_count"])
	}
}

func TestBandLabel(t *testing.T) {
	tests := []struct {
		labels []string
		band   int
		want   string
	}{
		{nil, 1, "band_1"},
		{nil, 3, "band_3"},
		{[]string{"ndvi"}, 1, "ndvi"},
		{[]string{"ndvi", "evi"}, 2, "evi"},
		{[]string{"ndvi"}, 2, "band_2"},
		{[]string{""}, 1, "band_1"},
	}
	for _, tt := range tests {
		if got := BandLabel(tt.labels, tt.band); got != tt.want {
			t.Errorf("BandLabel(%v, %d) = %q, want %q", tt.labels, tt.band, got, tt.want)
		}
	}
}
