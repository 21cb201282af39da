package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/terrametric/zonal.report/internal/catalog"
	"github.com/terrametric/zonal.report/internal/version"
)

const defaultCatalogDB = "zonal_runs.db"

func printVersion() {
	fmt.Printf("zonal-report %s (commit %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
}

// runMigrateCommand dispatches 'zonal-report migrate [-catalog path] <action>'.
// Flags may also follow the action.
func runMigrateCommand(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("catalog", defaultCatalogDB, "Path to the catalog database file")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) > 0 {
		fs.Parse(rest[1:])
		rest = append([]string{rest[0]}, fs.Args()...)
	}

	catalog.RunMigrateCommand(rest, *dbPath)
}

// runRunsCommand lists recent catalog runs with their recorded inputs.
func runRunsCommand(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("catalog", defaultCatalogDB, "Path to the catalog database file")
	limit := fs.Int("limit", 10, "Maximum number of runs to list")
	showRasters := fs.Bool("rasters", false, "List each run's recorded rasters")
	fs.Parse(args)

	database, err := catalog.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	runs, err := database.RecentRuns(*limit)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return
	}

	fmt.Println("=== Recent Runs ===")
	for _, r := range runs {
		fmt.Printf("%s  started=%s  status=%s  features=%d  rasters=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Status, r.FeatureCount, r.RasterCount)
		fmt.Printf("    geometry: %s\n", r.GeometryPath)
		if r.OutputPath != "" {
			fmt.Printf("    output:   %s\n", r.OutputPath)
		}
		if r.FinishedAt != nil {
			fmt.Printf("    finished: %s\n", r.FinishedAt.Format(time.RFC3339))
		}

		if !*showRasters {
			continue
		}
		rasters, err := database.RunRasters(r.ID)
		if err != nil {
			log.Fatalf("Failed to list rasters for run %s: %v", r.ID, err)
		}
		for _, rr := range rasters {
			mark := ""
			if rr.Duplicate {
				mark = "  (duplicate date)"
			}
			fmt.Printf("    [%d] %s  date=%s%s\n", rr.Position, rr.Path, rr.DateKey, mark)
		}
	}
}

// openCatalog opens the run catalog for recording. A fresh database is
// brought up to the embedded schema; an existing database that is behind or
// dirty is left alone so the operator decides when to migrate.
func openCatalog(path string) (*catalog.DB, error) {
	database, err := catalog.OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := catalog.MigrationsFS()
	if err != nil {
		database.Close()
		return nil, err
	}

	version, dirty, err := database.MigrateVersion(migrationsFS)
	if err != nil {
		database.Close()
		return nil, err
	}
	if dirty {
		database.Close()
		return nil, fmt.Errorf("catalog is in a dirty migration state; run 'zonal-report migrate status'")
	}

	latest, err := catalog.GetLatestMigrationVersion(migrationsFS)
	if err != nil {
		database.Close()
		return nil, err
	}

	switch {
	case version == 0:
		if err := database.MigrateUp(migrationsFS); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialise catalog schema: %w", err)
		}
	case version < latest:
		database.Close()
		return nil, fmt.Errorf("catalog schema version %d is behind latest %d; run 'zonal-report migrate up'", version, latest)
	}

	return database, nil
}
