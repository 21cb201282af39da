package zonal

import "math"

// Classify partitions extracted pixel values into the valid subset and an
// invalid count. With a declared nodata sentinel a pixel is invalid iff it
// equals the sentinel exactly; without one, iff it is not a finite number.
// len(values) == len(valid) + invalid always holds.
func Classify(values []float64, nodata *float64) (valid []float64, invalid int) {
	valid = make([]float64, 0, len(values))
	for _, v := range values {
		if pixelInvalid(v, nodata) {
			invalid++
			continue
		}
		valid = append(valid, v)
	}
	return valid, invalid
}

func pixelInvalid(v float64, nodata *float64) bool {
	if nodata != nil {
		return v == *nodata
	}
	return math.IsNaN(v) || math.IsInf(v, 0)
}
