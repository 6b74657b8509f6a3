package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "history.db")))
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	s, err := Open(DefaultConfig(nestedPath))
	if err != nil {
		t.Fatalf("Failed to open history with nested path: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("History file was not created in nested directory")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Errorf("Failed to query runs table: %v", err)
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(Config{Driver: "mysql"}); err == nil {
		t.Error("Expected error for unsupported driver")
	}
	if _, err := Open(Config{Driver: "sqlite"}); err == nil {
		t.Error("Expected error for missing sqlite path")
	}
}

func TestRecordRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.RecordRun(Run{
		Source:        "/tmp/monsters.txt",
		Fingerprint:   "abc",
		Levels:        30,
		TotalMonsters: 6000,
		LevelWeight:   1,
		WanderWeight:  2,
		CacheHit:      true,
	})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("Expected a generated ID")
	}
	if run.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Source != run.Source || got.Fingerprint != "abc" {
		t.Errorf("Unexpected run: %+v", got)
	}
	if got.Levels != 30 || got.TotalMonsters != 6000 {
		t.Errorf("Expected 30 levels and 6000 monsters, got %d and %d", got.Levels, got.TotalMonsters)
	}
	if got.LevelWeight != 1 || got.WanderWeight != 2 {
		t.Errorf("Expected weights 1/2, got %v/%v", got.LevelWeight, got.WanderWeight)
	}
	if !got.CacheHit {
		t.Error("Expected cache hit to round-trip")
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", run.CreatedAt, got.CreatedAt)
	}
}

func TestRecordRunDuplicate(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.RecordRun(Run{ID: "fixed", Source: "a"}); err != nil {
		t.Fatalf("First RecordRun failed: %v", err)
	}
	_, err := s.RecordRun(Run{ID: "fixed", Source: "a"})
	if !errors.Is(err, ErrDuplicateRun) {
		t.Errorf("Expected ErrDuplicateRun, got %v", err)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Unix(1700000000, 0)
	for i, source := range []string{"first", "second", "third"} {
		if _, err := s.RecordRun(Run{Source: source, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := s.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Source != "third" || runs[1].Source != "second" {
		t.Errorf("Expected newest first, got %s, %s", runs[0].Source, runs[1].Source)
	}
}

func TestRecentRunsEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs, got %d", len(runs))
	}
}

func TestPostgresConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "full",
			cfg:  PostgresConfig{Host: "db", Port: 5433, User: "rogue", Password: "p@ss", Database: "stats", SSLMode: "disable"},
			want: "postgres://rogue:p%40ss@db:5433/stats?sslmode=disable",
		},
		{
			name: "no password",
			cfg:  PostgresConfig{Host: "localhost", Port: 5432, User: "rogue", Database: "stats"},
			want: "postgres://rogue@localhost:5432/stats",
		},
		{
			name: "dsn wins",
			cfg:  PostgresConfig{DSN: "postgres://x@y/z", Host: "ignored"},
			want: "postgres://x@y/z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnString(); got != tt.want {
				t.Errorf("ConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}
