package app

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestListSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_likes.sql", "0001_init.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := listSQLFiles(dir)
	if err != nil {
		t.Fatalf("listSQLFiles returned error: %v", err)
	}
	if want := []string{"0001_init.sql", "0002_likes.sql"}; !slices.Equal(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}

	if _, err := listSQLFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPendingMigrations(t *testing.T) {
	all := []string{"0001_init.sql", "0002_likes.sql", "0003_history.sql"}
	pending := pendingMigrations(all, map[string]bool{"0001_init.sql": true})

	if want := []string{"0002_likes.sql", "0003_history.sql"}; !slices.Equal(pending, want) {
		t.Fatalf("expected %v, got %v", want, pending)
	}
	if got := pendingMigrations(all[:1], map[string]bool{"0001_init.sql": true}); len(got) != 0 {
		t.Fatalf("expected nothing pending, got %v", got)
	}
}

func TestSeedFileName(t *testing.T) {
	if got := seedFileName("dev"); got != "dev_seed.sql" {
		t.Fatalf("unexpected seed file %q", got)
	}
	if got := seedFileName("demo.sql"); got != "demo.sql" {
		t.Fatalf("unexpected seed file %q", got)
	}
}

func TestResolveDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "migrations")
	if got, _ := resolveDir(abs); got != abs {
		t.Fatalf("expected absolute dir unchanged, got %q", got)
	}

	got, err := resolveDir("migrations")
	if err != nil {
		t.Fatalf("resolveDir returned error: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "migrations" {
		t.Fatalf("unexpected resolved dir %q", got)
	}
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	if err := runMigrations(t.Context(), os.Stdout, []string{"down"}); err == nil {
		t.Fatal("expected error for unknown migrate command")
	}
}
