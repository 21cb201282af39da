package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/terrametric/zonal.report/internal/fsutil"
)

// PlotSeriesPNG renders a time series CSV written by WriteTimeseriesCSV as
// a PNG line chart, one line per *_mean column. Rows whose date is a
// filename fallback have no place on a time axis and are dropped; empty
// cells drop the point and leave a gap in that line.
func PlotSeriesPNG(fs fsutil.FileSystem, csvPath, outPath string) error {
	raw, err := fs.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", csvPath, err)
	}

	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", csvPath, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("no data rows in %s", csvPath)
	}

	header := rows[0]
	if len(header) == 0 || header[0] != "date" {
		return fmt.Errorf("%s is not a time series CSV: first column must be date", csvPath)
	}

	meanCols := make(map[int]string)
	for ci, col := range header {
		if label := strings.TrimSuffix(col, "_mean"); label != col {
			meanCols[ci] = label
		}
	}
	if len(meanCols) == 0 {
		return fmt.Errorf("no *_mean columns in %s", csvPath)
	}

	p := plot.New()
	p.Title.Text = strings.TrimSuffix(filepath.Base(csvPath), ".csv")
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Mean"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	plotted := 0
	seriesIdx := 0
	for ci := 0; ci < len(header); ci++ {
		label, ok := meanCols[ci]
		if !ok {
			continue
		}

		pts := make(plotter.XYs, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if len(row) <= ci {
				continue
			}
			t, terr := time.Parse("2006-01-02", row[0])
			if terr != nil {
				continue
			}
			v, verr := strconv.ParseFloat(row[ci], 64)
			if verr != nil {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(t.Unix()), Y: v})
		}

		if len(pts) == 0 {
			seriesIdx++
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build %s line: %w", label, err)
		}
		line.Color = plotutil.Color(seriesIdx)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(label, line)
		plotted++
		seriesIdx++
	}
	if plotted == 0 {
		return fmt.Errorf("no plottable rows in %s", csvPath)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(12*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create plot directory %s: %w", dir, err)
		}
	}
	f, err := fs.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
