package vector

import "github.com/paulmach/orb/simplify"

// Simplify applies Douglas-Peucker simplification to every geometry with
// the given tolerance in geometry units. A tolerance of zero or less is a
// no-op.
func (c *Collection) Simplify(tolerance float64) {
	if tolerance <= 0 {
		return
	}

	simplifier := simplify.DouglasPeucker(tolerance)
	for _, f := range c.fc.Features {
		if f.Geometry == nil {
			continue
		}
		if g := simplifier.Simplify(f.Geometry); g != nil {
			f.Geometry = g
		}
	}
}
