// Package history records every analysis run in a SQL database, SQLite by
// default or PostgreSQL when configured.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrDuplicateRun is returned when a run ID is recorded twice.
var ErrDuplicateRun = errors.New("run already recorded")

// Run is one completed analysis.
type Run struct {
	ID            string
	Source        string
	Fingerprint   string
	Levels        int
	TotalMonsters int
	LevelWeight   float64
	WanderWeight  float64
	CacheHit      bool
	CreatedAt     time.Time
}

// Store wraps the history database connection.
type Store struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects to the database selected by cfg and creates the schema.
func Open(cfg Config) (*Store, error) {
	driver := DialectType(strings.ToLower(strings.TrimSpace(cfg.Driver)))
	if driver == "" {
		driver = DialectSQLite
	}
	if driver != DialectSQLite && driver != DialectPostgres {
		return nil, fmt.Errorf("unsupported history driver %q", cfg.Driver)
	}
	dialect := NewDialect(driver)

	var dsn string
	switch driver {
	case DialectPostgres:
		dsn = cfg.Postgres.ConnString()
	default:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("history sqlite path is required")
		}
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if driver == DialectPostgres {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to history database: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	s := &Store{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT '',
			levels INTEGER NOT NULL,
			total_monsters INTEGER NOT NULL,
			level_weight DOUBLE PRECISION NOT NULL,
			wander_weight DOUBLE PRECISION NOT NULL,
			cache_hit INTEGER NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun stores run. An empty ID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (s *Store) RecordRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	hit := 0
	if run.CacheHit {
		hit = 1
	}

	_, err := s.db.Exec(s.qb.Build(`
		INSERT INTO runs (id, source, fingerprint, levels, total_monsters, level_weight, wander_weight, cache_hit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.Source, run.Fingerprint, run.Levels, run.TotalMonsters,
		run.LevelWeight, run.WanderWeight, hit, run.CreatedAt.UnixNano())
	if err != nil {
		if s.dialect.IsDuplicateKeyError(err) {
			return run, fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
		}
		return run, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(s.qb.Build(`
		SELECT id, source, fingerprint, levels, total_monsters, level_weight, wander_weight, cache_hit, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			hit     int
			created int64
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Fingerprint, &run.Levels, &run.TotalMonsters,
			&run.LevelWeight, &run.WanderWeight, &hit, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CacheHit = hit != 0
		run.CreatedAt = time.Unix(0, created)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
