package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"

	"github.com/terrametric/zonal.report/internal/catalog"
	"github.com/terrametric/zonal.report/internal/config"
	"github.com/terrametric/zonal.report/internal/diag"
	"github.com/terrametric/zonal.report/internal/export"
	"github.com/terrametric/zonal.report/internal/fsutil"
	"github.com/terrametric/zonal.report/internal/raster"
	"github.com/terrametric/zonal.report/internal/timeutil"
	"github.com/terrametric/zonal.report/internal/vector"
	"github.com/terrametric/zonal.report/internal/zonal"
)

// stringList accumulates repeated flag values. Comma-separated values in a
// single occurrence are split, so -t a.tif,b.tif equals -t a.tif -t b.tif.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

var (
	tiffs        stringList
	bandNames    stringList
	geometryPath = flag.String("geometry", "", "GeoJSON feature collection path")
	outputPath   = flag.String("output", "", "Output GeoJSON path")
	exportCSV    = flag.Bool("export-csv", false, "Write per-feature time series CSVs")
	csvDir       = flag.String("csv-dir", "timeseries_csv", "Directory for time series CSVs")
	idField      = flag.String("id-field", "id", "Feature property used to name CSV files")
	simplifyTol  = flag.Float64("simplify", 0, "Douglas-Peucker simplification tolerance (0 disables)")
	chartsOut    = flag.String("charts-out", "", "Write an HTML chart page to this path")
	catalogPath  = flag.String("catalog", "", "SQLite catalog recording runs (empty disables)")
	configPath   = flag.String("config", "", "JSON config file supplying defaults for the flags above")
)

func init() {
	flag.Var(&tiffs, "tiffs", "Raster path (repeatable)")
	flag.Var(&tiffs, "t", "Raster path (shorthand for -tiffs)")
	flag.Var(&bandNames, "band-names", "Band display label (repeatable; count must match raster bands)")
	flag.Var(&bandNames, "b", "Band display label (shorthand for -band-names)")
	flag.StringVar(geometryPath, "g", "", "GeoJSON feature collection path (shorthand for -geometry)")
	flag.StringVar(outputPath, "o", "", "Output GeoJSON path (shorthand for -output)")
}

// runOptions is the effective configuration after merging config file values
// with command-line flags. A flag wins only when it was explicitly set.
type runOptions struct {
	rasters   []string
	geometry  string
	output    string
	bands     []string
	exportCSV bool
	csvDir    string
	idField   string
	simplify  float64
	chartsOut string
	catalog   string
}

func resolveOptions(cfg *config.RunConfig) runOptions {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := runOptions{
		rasters:   tiffs,
		geometry:  *geometryPath,
		output:    *outputPath,
		bands:     cfg.GetBandLabels(),
		exportCSV: *exportCSV,
		csvDir:    cfg.GetCSVDir(),
		idField:   cfg.GetIDField(),
		simplify:  cfg.GetSimplifyTolerance(),
		chartsOut: cfg.GetChartsOut(),
		catalog:   cfg.GetCatalogPath(),
	}

	if len(bandNames) > 0 {
		opts.bands = bandNames
	}
	if set["csv-dir"] {
		opts.csvDir = *csvDir
	}
	if set["id-field"] {
		opts.idField = *idField
	}
	if set["simplify"] {
		opts.simplify = *simplifyTol
	}
	if set["charts-out"] {
		opts.chartsOut = *chartsOut
	}
	if set["catalog"] {
		opts.catalog = *catalogPath
	}

	return opts
}

func main() {
	// Subcommands bypass the statistics flag surface entirely.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrateCommand(os.Args[2:])
			return
		case "runs":
			runRunsCommand(os.Args[2:])
			return
		case "version":
			printVersion()
			return
		}
	}

	flag.Parse()

	cfg := config.EmptyRunConfig()
	if *configPath != "" {
		loaded, err := config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}

	opts := resolveOptions(cfg)

	if opts.geometry == "" {
		log.Fatal("Geometry path is required (use -g)")
	}
	if opts.output == "" {
		log.Fatal("Output path is required (use -o)")
	}
	if len(opts.rasters) == 0 {
		log.Fatal("At least one raster is required (use -t)")
	}
	if opts.exportCSV && len(opts.rasters) < 2 {
		log.Fatal("CSV export requires a raster time series; pass two or more rasters")
	}

	fs := fsutil.OSFileSystem{}
	clock := timeutil.RealClock{}

	coll, err := vector.Load(fs, opts.geometry)
	if err != nil {
		log.Fatalf("Failed to load features from %s: %v", opts.geometry, err)
	}
	diag.Logf("Loaded %d features from %s", coll.Len(), opts.geometry)

	if opts.simplify > 0 {
		coll.Simplify(opts.simplify)
		diag.Logf("Simplified geometries with tolerance %g", opts.simplify)
	}

	var cat *catalog.DB
	var runID string
	if opts.catalog != "" {
		cat, err = openCatalog(opts.catalog)
		if err != nil {
			log.Fatalf("Failed to open catalog %s: %v", opts.catalog, err)
		}
		defer cat.Close()

		runID, err = cat.BeginRun(clock, opts.geometry, coll.Len())
		if err != nil {
			log.Fatalf("Failed to record run start: %v", err)
		}
		recordRasters(cat, runID, opts.rasters)
	}

	raster.RegisterDrivers()

	if err := process(fs, coll, opts); err != nil {
		if cat != nil {
			if ferr := cat.FinishRun(clock, runID, catalog.StatusFailed, "", len(opts.rasters)); ferr != nil {
				log.Printf("Failed to mark run %s failed: %v", runID, ferr)
			}
		}
		log.Fatalf("Processing failed: %v", err)
	}

	if cat != nil {
		if err := cat.FinishRun(clock, runID, catalog.StatusCompleted, opts.output, len(opts.rasters)); err != nil {
			log.Printf("Failed to mark run %s completed: %v", runID, err)
		}
	}
}

// process runs the statistics pipeline and saves the annotated collection.
// One raster attaches a statistics record per feature; several attach a
// dated time series per feature.
func process(fs fsutil.FileSystem, coll *vector.Collection, opts runOptions) error {
	engine := zonal.New(zonal.Options{BandLabels: opts.bands, Logf: diag.Logf})
	geoms := coll.Geometries()

	if len(opts.rasters) == 1 {
		if opts.chartsOut != "" {
			diag.Logf("Charts require a raster time series; skipping %s", opts.chartsOut)
		}
		if err := processSingle(engine, coll, geoms, opts.rasters[0]); err != nil {
			return err
		}
	} else {
		if err := processSeries(fs, engine, coll, geoms, opts); err != nil {
			return err
		}
	}

	if err := coll.Save(fs, opts.output); err != nil {
		return fmt.Errorf("failed to save output GeoJSON: %w", err)
	}
	diag.Logf("Saved %d features to %s", coll.Len(), opts.output)

	return nil
}

func processSingle(engine *zonal.Engine, coll *vector.Collection, geoms []orb.Geometry, path string) error {
	ds, err := raster.OpenGDAL(path)
	if err != nil {
		return fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	defer ds.Close()

	records, err := engine.ProcessSingle(ds, geoms)
	if err != nil {
		return err
	}

	for i, rec := range records {
		coll.SetProperty(i, "statistics", rec)
	}

	return nil
}

func processSeries(fs fsutil.FileSystem, engine *zonal.Engine, coll *vector.Collection, geoms []orb.Geometry, opts runOptions) error {
	// Features that already carry a series keep it; new entries append.
	arena := zonal.NewArena(coll.Len())
	for i := 0; i < coll.Len(); i++ {
		if raw, ok := coll.Property(i, "timeseries"); ok {
			arena.Seed(i, raw)
		}
	}

	if err := engine.ProcessSeries(raster.OpenGDAL, opts.rasters, geoms, arena); err != nil {
		return err
	}

	for i := 0; i < coll.Len(); i++ {
		coll.SetProperty(i, "timeseries", arena.Entries(i))
	}

	if opts.exportCSV || opts.chartsOut != "" {
		ids := make([]string, coll.Len())
		for i := range ids {
			ids[i] = coll.FeatureID(i, opts.idField)
		}

		if opts.exportCSV {
			if err := export.ExportCSVs(fs, opts.csvDir, ids, arena, diag.Logf); err != nil {
				return err
			}
			// Tables carry the series from here on.
			coll.DropProperty("timeseries")
		}

		if opts.chartsOut != "" {
			if err := export.WriteChartsHTML(fs, opts.chartsOut, ids, arena, diag.Logf); err != nil {
				return err
			}
		}
	}

	return nil
}

// recordRasters writes the run's input listing. A date key seen twice marks
// the later raster as a duplicate, mirroring the engine's warning.
func recordRasters(cat *catalog.DB, runID string, paths []string) {
	seen := make(map[string]bool, len(paths))
	for i, path := range paths {
		key := zonal.DateKey(path)
		if err := cat.RecordRaster(runID, i, path, key, seen[key]); err != nil {
			log.Printf("Failed to record raster %s: %v", path, err)
		}
		seen[key] = true
	}
}
