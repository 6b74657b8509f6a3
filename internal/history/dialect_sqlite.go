package history

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteDialect stores run history in a single file next to the cache.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Type() DialectType { return DialectSQLite }

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// Placeholder is always "?"; SQLite binds run fields by order.
func (d *SQLiteDialect) Placeholder(int) string { return "?" }

// InitStatements let a serve process and a one-shot analysis append runs to
// the same file without "database is locked" failures.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
