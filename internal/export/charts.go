package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/terrametric/zonal.report/internal/fsutil"
	"github.com/terrametric/zonal.report/internal/zonal"
)

// WriteChartsHTML renders one line chart per band into a single HTML page:
// the x axis is the union of date keys across all features in export order,
// and each feature contributes one series of that band's mean. Null means
// plot as gaps. When a feature carries the same date twice the last entry
// wins on the chart; the CSV export keeps both.
func WriteChartsHTML(fs fsutil.FileSystem, path string, ids []string, arena *zonal.Arena, logf zonal.Logf) error {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if arena.Len() != len(ids) {
		return fmt.Errorf("arena holds %d features but %d identifiers were given", arena.Len(), len(ids))
	}

	dates := dateAxis(arena)
	bands := bandLabels(arena)
	if len(dates) == 0 || len(bands) == 0 {
		logf("Skipping charts: no time series data")
		return nil
	}

	page := components.NewPage()
	page.PageTitle = "Zonal statistics time series"
	for _, band := range bands {
		page.AddCharts(bandChart(band, dates, ids, arena))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create charts directory %s: %w", dir, err)
		}
	}
	if err := fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logf("Saved charts page: %s", path)
	return nil
}

// bandChart draws one band's mean over time, one line per feature.
func bandChart(band string, dates, ids []string, arena *zonal.Arena) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: band + " mean"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(dates)
	for i, fid := range ids {
		entries := arena.Entries(i)
		if len(entries) == 0 {
			continue
		}

		byDate := make(map[string]interface{})
		for _, e := range entries {
			byDate[entryDate(e)] = e[band+"_mean"]
		}

		data := make([]opts.LineData, 0, len(dates))
		for _, d := range dates {
			data = append(data, opts.LineData{Value: byDate[d]})
		}
		line.AddSeries(fid, data)
	}
	return line
}

// dateAxis collects the union of date keys across all features, ordered the
// same way CSV rows are.
func dateAxis(arena *zonal.Arena) []string {
	seen := make(map[string]bool)
	for i := 0; i < arena.Len(); i++ {
		for _, e := range arena.Entries(i) {
			seen[entryDate(e)] = true
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dateLess(dates[i], dates[j]) })
	return dates
}

// bandLabels recovers the band names present in the series by looking for
// *_mean fields, so legacy entries loaded from existing output count too.
func bandLabels(arena *zonal.Arena) []string {
	seen := make(map[string]bool)
	for i := 0; i < arena.Len(); i++ {
		for _, e := range arena.Entries(i) {
			for k := range e {
				if label := strings.TrimSuffix(k, "_mean"); label != k {
					seen[label] = true
				}
			}
		}
	}

	bands := make([]string, 0, len(seen))
	for b := range seen {
		bands = append(bands, b)
	}
	sort.Strings(bands)
	return bands
}
