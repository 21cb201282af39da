// Package export renders finalized statistics products: per-feature CSV
// tables, an HTML chart page, and PNG plots.
package export

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/terrametric/zonal.report/internal/fsutil"
	"github.com/terrametric/zonal.report/internal/security"
	"github.com/terrametric/zonal.report/internal/zonal"
)

// WriteTimeseriesCSV writes one feature's series as <dir>/<fid>.csv with a
// date column first and the union of the remaining fields, sorted, after
// it. Rows are ordered chronologically for parseable dates; entries whose
// date is a filename fallback sort after them, lexicographically. An empty
// series writes nothing and returns an empty path.
func WriteTimeseriesCSV(fs fsutil.FileSystem, dir, fid string, entries []zonal.Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	path := filepath.Join(dir, security.SanitizeFilename(fid)+".csv")
	f, err := fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	header := columnsFor(entries)
	rows := sortedByDate(entries)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for _, e := range rows {
		record := make([]string, len(header))
		for ci, col := range header {
			record[ci] = formatValue(e[col])
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return path, nil
}

// ExportCSVs writes one CSV per feature, named by the caller-resolved
// feature identifiers. Features with empty series are skipped.
func ExportCSVs(fs fsutil.FileSystem, dir string, ids []string, arena *zonal.Arena, logf zonal.Logf) error {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if arena.Len() != len(ids) {
		return fmt.Errorf("arena holds %d features but %d identifiers were given", arena.Len(), len(ids))
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create CSV directory %s: %w", dir, err)
	}

	for i, fid := range ids {
		path, err := WriteTimeseriesCSV(fs, dir, fid, arena.Entries(i))
		if err != nil {
			return err
		}
		if path == "" {
			logf("Skipping %s: empty time series", fid)
			continue
		}
		logf("Saved time series CSV: %s", path)
	}
	return nil
}

// columnsFor builds the header: date first, then the union of all other
// keys across entries, sorted.
func columnsFor(entries []zonal.Entry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		for k := range e {
			if k != "date" {
				seen[k] = true
			}
		}
	}

	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append([]string{"date"}, rest...)
}

// sortedByDate orders entries for export: calendar dates chronologically,
// then fallback keys lexicographically after them. The sort is stable, so
// same-day entries keep their processing order.
func sortedByDate(entries []zonal.Entry) []zonal.Entry {
	out := make([]zonal.Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(entryDate(out[i]), entryDate(out[j]))
	})
	return out
}

// dateLess orders calendar dates chronologically and puts fallback keys
// after all of them, lexicographically.
func dateLess(a, b string) bool {
	ta, aOK := parseDate(a)
	tb, bOK := parseDate(b)
	switch {
	case aOK && bOK:
		return ta.Before(tb)
	case aOK != bOK:
		return aOK
	default:
		return a < b
	}
}

func entryDate(e zonal.Entry) string {
	return formatValue(e["date"])
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// formatValue renders a field for CSV. Nulls become empty cells; floats use
// the shortest exact representation.
func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
