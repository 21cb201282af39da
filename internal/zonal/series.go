package zonal

import "sort"

type seriesState uint8

const (
	seriesEmpty seriesState = iota
	seriesSequence
)

// Series is the canonical per-feature time-series value: a tagged variant
// that is either Empty or a Sequence of entries. All legacy shapes are
// folded into one of the two tags by NormalizeSeries; nothing downstream
// branches on the raw shape again.
type Series struct {
	state   seriesState
	entries []Entry
}

// Len returns the number of entries.
func (s *Series) Len() int { return len(s.entries) }

// Entries returns the entries in append order. The returned slice is a
// copy; the entries themselves are shared and must be treated as read-only.
func (s *Series) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Series) append(e Entry) {
	s.entries = append(s.entries, e)
	s.state = seriesSequence
}

// NormalizeSeries converts pre-existing per-feature series state into
// canonical form:
//
//   - absent/nil            → Empty
//   - sequence of entries   → Sequence, entries passed through unchanged
//   - date-keyed mapping    → Sequence of {date: key, ...fields} entries,
//     keys in ascending order; a field named "date" inside a mapping value
//     overrides the key, preserving the legacy merge behavior
//   - anything else         → Empty
//
// Normalizing an already-normalized sequence yields the same sequence.
func NormalizeSeries(raw interface{}) Series {
	switch v := raw.(type) {
	case nil:
		return Series{}

	case []Entry:
		entries := make([]Entry, len(v))
		copy(entries, v)
		return sequence(entries)

	case []map[string]interface{}:
		entries := make([]Entry, 0, len(v))
		for _, m := range v {
			entries = append(entries, Entry(m))
		}
		return sequence(entries)

	case []interface{}:
		entries := make([]Entry, 0, len(v))
		for _, el := range v {
			switch m := el.(type) {
			case Entry:
				entries = append(entries, m)
			case map[string]interface{}:
				entries = append(entries, Entry(m))
			default:
				// A sequence holding non-records is not series state.
				return Series{}
			}
		}
		return sequence(entries)

	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]Entry, 0, len(v))
		for _, k := range keys {
			fields, ok := v[k].(map[string]interface{})
			if !ok {
				return Series{}
			}
			entry := make(Entry, len(fields)+1)
			entry["date"] = k
			for fk, fv := range fields {
				entry[fk] = fv
			}
			entries = append(entries, entry)
		}
		return sequence(entries)
	}

	return Series{}
}

func sequence(entries []Entry) Series {
	if len(entries) == 0 {
		// An empty sequence and Empty are the same tag.
		return Series{}
	}
	return Series{state: seriesSequence, entries: entries}
}
