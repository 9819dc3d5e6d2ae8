package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migrator handles database schema migrations
type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
}

// NewMigrator creates a migration runner reading *.sql files from the root
// of fsys (normally migrations.FS).
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS) *Migrator {
	return &Migrator{
		pool: pool,
		fsys: fsys,
	}
}

// RunMigrations executes all pending database migrations
//
// This function:
//  1. Creates the schema_migrations tracking table if it doesn't exist
//  2. Lists the migration files in alphabetical order
//  3. Skips reset scripts and migrations that have already been run
//  4. Executes each new migration and records it
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("[Migrator] Starting database migrations...")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := migrationFiles(m.fsys)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	migrationsRun := 0
	for _, filename := range pending(files, applied) {
		content, err := fs.ReadFile(m.fsys, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		log.Printf("[Migrator]   → Running: %s", filename)
		if _, err := m.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", filename, err)
		}

		if err := m.recordMigration(ctx, filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		migrationsRun++
	}

	if migrationsRun > 0 {
		log.Printf("[Migrator] ✓ Successfully ran %d new migration(s)", migrationsRun)
	} else {
		log.Println("[Migrator] ✓ All migrations already applied - database is up to date")
	}
	return nil
}

// migrationFiles returns the .sql files at the root of fsys, sorted.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// pending filters out reset scripts (destructive) and applied migrations.
func pending(files []string, applied map[string]bool) []string {
	var out []string
	for _, f := range files {
		if strings.Contains(f, "reset") || applied[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) recordMigration(ctx context.Context, filename string) error {
	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`
	_, err := m.pool.Exec(ctx, query, filename)
	return err
}
