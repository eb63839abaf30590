package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/migrations"
)

func TestFS_PairedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("no up migrations embedded")
	}
	for version := range ups {
		if !downs[version] {
			t.Errorf("migration %s has no down file", version)
		}
	}
	for version := range downs {
		if !ups[version] {
			t.Errorf("migration %s has no up file", version)
		}
	}
}

func TestFS_TablesCreated(t *testing.T) {
	for _, table := range []string{"templates", "artifacts", "activity_logs"} {
		found := false
		err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".up.sql") {
				return err
			}
			data, err := fs.ReadFile(migrations.FS, path)
			if err != nil {
				return err
			}
			if strings.Contains(string(data), "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WalkDir() failed: %v", err)
		}
		if !found {
			t.Errorf("no migration creates %s", table)
		}
	}
}
