package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/terrametric/zonal.report/internal/timeutil"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one invocation of the statistics pipeline.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   *time.Time
	GeometryPath string
	FeatureCount int
	RasterCount  int
	OutputPath   string
	Status       string
}

// RunRaster is one raster processed during a run, in processing order.
// Duplicate marks rasters whose date key was already seen earlier in the
// same run.
type RunRaster struct {
	RunID     string
	Position  int
	Path      string
	DateKey   string
	Duplicate bool
}

// BeginRun inserts a new run in the running state and returns its ID.
func (db *DB) BeginRun(clock timeutil.Clock, geometryPath string, featureCount int) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO runs (id, started_at, geometry_path, feature_count, status)
		 VALUES (?, ?, ?, ?, ?)`,
		id, clock.Now().UTC(), geometryPath, featureCount, StatusRunning,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// RecordRaster appends one processed raster to a run.
func (db *DB) RecordRaster(runID string, position int, path, dateKey string, duplicate bool) error {
	dup := 0
	if duplicate {
		dup = 1
	}

	_, err := db.Exec(
		`INSERT INTO run_rasters (run_id, position, path, date_key, duplicate)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, position, path, dateKey, dup,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run raster: %w", err)
	}
	return nil
}

// FinishRun closes a run with its final status and output location.
func (db *DB) FinishRun(clock timeutil.Clock, runID, status, outputPath string, rasterCount int) error {
	res, err := db.Exec(
		`UPDATE runs
		 SET finished_at = ?, status = ?, output_path = ?, raster_count = ?
		 WHERE id = ?`,
		clock.Now().UTC(), status, outputPath, rasterCount, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check run update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no run with id %s", runID)
	}
	return nil
}

// RecentRuns returns the most recently started runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(
		`SELECT id, started_at, finished_at, geometry_path, feature_count,
		        raster_count, output_path, status
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		var output sql.NullString
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &finished, &r.GeometryPath, &r.FeatureCount,
			&r.RasterCount, &output, &r.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		r.OutputPath = output.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunRasters returns a run's rasters in processing order.
func (db *DB) RunRasters(runID string) ([]RunRaster, error) {
	rows, err := db.Query(
		`SELECT run_id, position, path, date_key, duplicate
		 FROM run_rasters
		 WHERE run_id = ?
		 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run rasters: %w", err)
	}
	defer rows.Close()

	var rasters []RunRaster
	for rows.Next() {
		var rr RunRaster
		var dup int
		if err := rows.Scan(&rr.RunID, &rr.Position, &rr.Path, &rr.DateKey, &dup); err != nil {
			return nil, fmt.Errorf("failed to scan run raster row: %w", err)
		}
		rr.Duplicate = dup != 0
		rasters = append(rasters, rr)
	}
	return rasters, rows.Err()
}
