package zonal

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BandStats summarizes one band's valid pixels for one geometry. The four
// measurement pointers are nil iff Valid == 0; Count == Valid + Invalid.
type BandStats struct {
	Min     *float64
	Max     *float64
	Mean    *float64
	Std     *float64
	Count   int
	Valid   int
	Invalid int
}

// Reduce computes band statistics over the valid subset of total extracted
// pixels. Standard deviation uses the population formula: a single valid
// pixel reduces to std 0, never NaN. With no valid pixels the measurements
// stay nil while Count still reports the true extracted total.
func Reduce(valid []float64, total int) BandStats {
	bs := BandStats{
		Count:   total,
		Valid:   len(valid),
		Invalid: total - len(valid),
	}
	if len(valid) == 0 {
		return bs
	}

	mn := floats.Min(valid)
	mx := floats.Max(valid)
	mean := stat.Mean(valid, nil)
	std := stat.PopStdDev(valid, nil)

	bs.Min = &mn
	bs.Max = &mx
	bs.Mean = &mean
	bs.Std = &std
	return bs
}

// Fields flattens the statistics into <label>_<metric> keys. Nil
// measurements become untyped nil values (JSON null).
func (s BandStats) Fields(label string) map[string]interface{} {
	return map[string]interface{}{
		label + "_min":     numOrNil(s.Min),
		label + "_max":     numOrNil(s.Max),
		label + "_mean":    numOrNil(s.Mean),
		label + "_std":     numOrNil(s.Std),
		label + "_count":   s.Count,
		label + "_valid":   s.Valid,
		label + "_invalid": s.Invalid,
	}
}

func numOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// BandLabel returns the display label for a 1-based band index: the
// caller-supplied name when present, else the positional fallback.
func BandLabel(labels []string, band int) string {
	if band >= 1 && band <= len(labels) && labels[band-1] != "" {
		return labels[band-1]
	}
	return fmt.Sprintf("band_%d", band)
}
