package zonal

import "fmt"

// Arena owns one Series per feature, indexed by feature position — the sole
// join key between raster-derived statistics and the feature collection.
// Only the aggregation path mutates it, and only sequentially; there is no
// aliasing of the underlying sequences.
//
// A slot starts in the raw state, optionally holding legacy series state
// installed by Seed. The raw → normalized transition happens exactly once,
// lazily, the first time the slot is touched, by shape inspection of the raw
// value.
type Arena struct {
	raw    []interface{}
	series []*Series
}

// NewArena creates an arena for a fixed-size feature collection.
func NewArena(n int) *Arena {
	return &Arena{
		raw:    make([]interface{}, n),
		series: make([]*Series, n),
	}
}

// Len returns the number of feature slots.
func (a *Arena) Len() int { return len(a.series) }

// Seed installs pre-existing series state for a feature. It must precede
// the first touch of that feature's slot in a run.
func (a *Arena) Seed(i int, raw interface{}) {
	if a.series[i] != nil {
		panic(fmt.Sprintf("zonal: Seed(%d) after the series was already normalized", i))
	}
	a.raw[i] = raw
}

// Append adds one entry to a feature's series, normalizing any seeded
// legacy state first. The sequence strictly grows; repeated date keys are
// appended, never merged.
func (a *Arena) Append(i int, e Entry) {
	a.touch(i).append(e)
}

// Entries returns a feature's normalized entries in append order.
func (a *Arena) Entries(i int) []Entry {
	return a.touch(i).Entries()
}

func (a *Arena) touch(i int) *Series {
	if a.series[i] == nil {
		s := NormalizeSeries(a.raw[i])
		a.series[i] = &s
		a.raw[i] = nil
	}
	return a.series[i]
}
