package catalog

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func openBareCatalog(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bare.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUpEmbedded(t *testing.T) {
	db := setupTestCatalog(t)

	migrationsFS, err := MigrationsFS()
	if err != nil {
		t.Fatalf("MigrationsFS failed: %v", err)
	}

	version, dirty, err := db.MigrateVersion(migrationsFS)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if dirty {
		t.Error("database should not be dirty after up")
	}

	latest, err := GetLatestMigrationVersion(migrationsFS)
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion failed: %v", err)
	}
	if version != latest {
		t.Errorf("version = %d, want latest %d", version, latest)
	}

	// Second up is a no-op
	if err := db.MigrateUp(migrationsFS); err != nil {
		t.Errorf("repeated MigrateUp failed: %v", err)
	}

	for _, table := range []string{"runs", "run_rasters"} {
		var n int
		err := db.QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&n)
		if err != nil {
			t.Fatalf("table check failed: %v", err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrate up", table)
		}
	}
}

func TestMigrateDownStepsBack(t *testing.T) {
	db := setupTestCatalog(t)

	migrationsFS, err := MigrationsFS()
	if err != nil {
		t.Fatalf("MigrationsFS failed: %v", err)
	}

	before, _, err := db.MigrateVersion(migrationsFS)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}

	if err := db.MigrateDown(migrationsFS); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}

	after, _, err := db.MigrateVersion(migrationsFS)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if after != before-1 {
		t.Errorf("version after down = %d, want %d", after, before-1)
	}
}

func TestMigrateVersionFreshDB(t *testing.T) {
	db := openBareCatalog(t)

	migrationsFS := fstest.MapFS{
		"000001_init.up.sql":   &fstest.MapFile{Data: []byte("CREATE TABLE IF NOT EXISTS t1 (id INTEGER PRIMARY KEY);")},
		"000001_init.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE IF EXISTS t1;")},
	}

	version, dirty, err := db.MigrateVersion(migrationsFS)
	if err != nil {
		t.Fatalf("MigrateVersion on fresh DB failed: %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("fresh DB version = %d dirty = %v, want 0 false", version, dirty)
	}
}

func TestMigrateUpClosedDB(t *testing.T) {
	db := openBareCatalog(t)
	db.Close()

	migrationsFS := fstest.MapFS{
		"000001_init.up.sql":   &fstest.MapFile{Data: []byte("CREATE TABLE IF NOT EXISTS t1 (id INTEGER PRIMARY KEY);")},
		"000001_init.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE IF EXISTS t1;")},
	}

	err := db.MigrateUp(migrationsFS)
	if err == nil {
		t.Fatal("expected error from MigrateUp on closed DB")
	}
	if !strings.Contains(err.Error(), "failed to create sqlite driver") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetMigrationStatus(t *testing.T) {
	db := setupTestCatalog(t)

	migrationsFS, err := MigrationsFS()
	if err != nil {
		t.Fatalf("MigrationsFS failed: %v", err)
	}

	status, err := db.GetMigrationStatus(migrationsFS)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	if exists, _ := status["schema_migrations_exists"].(bool); !exists {
		t.Error("schema_migrations table should exist after migrate up")
	}
}

func TestGetLatestMigrationVersion(t *testing.T) {
	migrationsFS := fstest.MapFS{
		"000001_a.up.sql":   &fstest.MapFile{Data: []byte("SELECT 1;")},
		"000001_a.down.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
		"000003_c.up.sql":   &fstest.MapFile{Data: []byte("SELECT 1;")},
		"000003_c.down.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
	}

	latest, err := GetLatestMigrationVersion(migrationsFS)
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("latest = %d, want 3", latest)
	}

	if _, err := GetLatestMigrationVersion(fstest.MapFS{}); err == nil {
		t.Error("expected error for empty migrations FS")
	}
}
