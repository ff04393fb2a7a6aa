package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_indexes.sql", "CREATE INDEX a ON t (x);")
	writeFile(t, dir, "001_core.sql", "CREATE TABLE t (x INT);")
	writeFile(t, dir, "010_later.sql", "ALTER TABLE t ADD y INT;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, w := range wantVersions {
		if migrations[i].Version != w {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, w)
		}
	}
	if migrations[0].SQL != "CREATE TABLE t (x INT);" {
		t.Errorf("unexpected SQL content: %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsNonNumericAndNonSQL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "001_core.sql", "SELECT 1;")
	writeFile(t, dir, "README.md", "notes")
	writeFile(t, dir, "abc_bad.sql", "SELECT 2;")
	writeFile(t, dir, "noversion.sql", "SELECT 3;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("got %d migrations, want 1", len(migrations))
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("Name = %q", migrations[0].Name)
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/path")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
