package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
)

func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, db.Ping()
}

// Migrate runs every .sql file in dir in name order and returns the files it
// ran. The files are written to be re-runnable.
func Migrate(ctx context.Context, db *sql.DB, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}

	for i, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return files[:i], fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return files[:i], fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return files, nil
}
