package history

// Dialect covers what the run history needs from each backend: how to open
// it, how to bind run fields, and how to recognize a reused run id.
type Dialect interface {
	// Type reports which backend the dialect targets.
	Type() DialectType

	// DriverName is the database/sql driver registered for the backend.
	DriverName() string

	// Placeholder binds the n-th (1-based) run field in a statement.
	Placeholder(n int) string

	// InitStatements run once per connection pool, before the runs table
	// is migrated.
	InitStatements() []string

	// IsDuplicateKeyError reports whether err is a runs primary key clash.
	IsDuplicateKeyError(err error) bool
}

// DialectType names a history backend in the config file.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything but postgres keeps history
// in the local SQLite file.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
