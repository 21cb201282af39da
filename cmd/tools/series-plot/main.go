// Command series-plot renders PNG line charts from the per-feature time
// series CSVs written by zonal-report -export-csv.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/terrametric/zonal.report/internal/export"
	"github.com/terrametric/zonal.report/internal/fsutil"
)

var (
	csvDir = flag.String("csv-dir", "timeseries_csv", "Directory holding time series CSVs")
	outDir = flag.String("out-dir", "", "Directory for PNG output (default: same as -csv-dir)")
)

func main() {
	flag.Parse()

	fs := fsutil.OSFileSystem{}

	pattern := filepath.Join(*csvDir, "*.csv")
	files, err := fs.Glob(pattern)
	if err != nil {
		log.Fatalf("Failed to list %s: %v", pattern, err)
	}
	if len(files) == 0 {
		log.Fatalf("No CSV files match %s", pattern)
	}

	dir := *outDir
	if dir == "" {
		dir = *csvDir
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", dir, err)
	}

	for _, f := range files {
		base := strings.TrimSuffix(filepath.Base(f), ".csv")
		out := filepath.Join(dir, base+".png")

		if err := export.PlotSeriesPNG(fs, f, out); err != nil {
			log.Printf("Skipping %s: %v", f, err)
			continue
		}
		log.Printf("Saved plot: %s", out)
	}
}
