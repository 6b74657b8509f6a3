package history

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE for a primary key or unique index clash.
const uniqueViolation = "23505"

// PostgresDialect stores run history in a shared PostgreSQL database.
type PostgresDialect struct{}

func (d *PostgresDialect) Type() DialectType { return DialectPostgres }

func (d *PostgresDialect) DriverName() string { return "postgres" }

// Placeholder returns "$n".
func (d *PostgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// InitStatements is empty; pool limits come from PostgresConfig.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, uniqueViolation) ||
		strings.Contains(msg, "unique constraint")
}
