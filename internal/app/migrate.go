package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
)

const schemaMigrationsDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version    TEXT PRIMARY KEY,
        applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func runMigrations(ctx context.Context, out io.Writer, args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	if command != "up" && command != "status" {
		return fmt.Errorf("unknown migrate command %q", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := resolveDir(cfg.MigrationDir)
	if err != nil {
		return err
	}
	migrations, err := listSQLFiles(dir)
	if err != nil {
		return err
	}

	return withConn(ctx, cfg.DatabaseURL, func(conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, schemaMigrationsDDL); err != nil {
			return fmt.Errorf("ensure schema_migrations table: %w", err)
		}
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}

		if command == "status" {
			for _, name := range migrations {
				mark := " "
				if applied[name] {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s\n", mark, name)
			}
			return nil
		}

		pending := pendingMigrations(migrations, applied)
		if len(pending) == 0 {
			fmt.Fprintln(out, "no migrations to apply")
			return nil
		}
		for _, name := range pending {
			contents, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}
			if err := applyMigration(ctx, conn, name, string(contents)); err != nil {
				return err
			}
			fmt.Fprintf(out, "applied migration %s\n", name)
		}
		return nil
	})
}

func runSeed(ctx context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("expected seed name (e.g. dev)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := resolveDir(cfg.SeedDir)
	if err != nil {
		return err
	}

	name := seedFileName(args[0])
	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read seed %s: %w", name, err)
	}

	return withConn(ctx, cfg.DatabaseURL, func(conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply seed %s: %w", name, err)
		}
		fmt.Fprintf(out, "applied seed %s\n", name)
		return nil
	})
}

// applyMigration runs contents and records name in one serializable
// transaction, retried by crdb on serialization failures.
func applyMigration(ctx context.Context, conn *pgxpool.Conn, name, contents string) error {
	err := crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, contents); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("record: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migration %s: %w", name, err)
	}
	return nil
}

func appliedVersions(ctx context.Context, conn *pgxpool.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("fetch applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func withConn(ctx context.Context, databaseURL string, fn func(*pgxpool.Conn) error) error {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

// resolveDir anchors a relative directory at the working directory.
func resolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	return filepath.Join(wd, dir), nil
}

// listSQLFiles returns the .sql files in dir in lexical order.
func listSQLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func pendingMigrations(all []string, applied map[string]bool) []string {
	var pending []string
	for _, name := range all {
		if !applied[name] {
			pending = append(pending, name)
		}
	}
	return pending
}

// seedFileName maps a short seed name such as "dev" to dev_seed.sql.
func seedFileName(name string) string {
	if strings.HasSuffix(name, ".sql") {
		return name
	}
	return name + "_seed.sql"
}
