// Package dialect names the SQL dialects supported by the reltree
// fetchers.
//
// Each dialect is identified by a constant string matching the name
// the corresponding database/sql driver registers under:
//
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "postgres"
package dialect

// Dialects of the supported databases.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)
