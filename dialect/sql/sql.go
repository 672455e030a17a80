// Package sql provides a database/sql-backed record fetcher for
// reltree record propagation.
//
// The fetcher translates one propagation hop, the records of a type
// linked through a relation field to any of the given parent ids, into
// a single SELECT, using the storage information declared on the
// schema (EntityType.Table/IDColumn and the per-relation
// schema.Relation). Rows are scanned generically into [Row] records.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/reltree"
	"github.com/syssam/reltree/dialect"
	"github.com/syssam/reltree/schema"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Row is a generic record scanned from a related-records query. Byte
// slices are normalized to strings so identifiers stay comparable.
type Row struct {
	// ID holds the value of the entity type's primary-key column.
	ID any
	// Columns holds every scanned column by name.
	Columns map[string]any
}

// RecordID implements reltree.Record.
func (r *Row) RecordID() any { return r.ID }

// Fetcher is a reltree.Fetcher implementation for SQL based databases.
type Fetcher struct {
	db      *sql.DB
	dialect string
}

// Open wraps the database/sql.Open method and returns a Fetcher over
// the opened database.
func Open(dialect, source string) (*Fetcher, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(dialect, db), nil
}

// OpenDB wraps the given database/sql.DB with a Fetcher.
func OpenDB(dialect string, db *sql.DB) *Fetcher {
	return &Fetcher{db: db, dialect: dialect}
}

// DB returns the underlying *sql.DB instance.
func (f *Fetcher) DB() *sql.DB { return f.db }

// Dialect returns the normalized dialect name.
func (f *Fetcher) Dialect() string {
	// If the underlying driver is registered under a decorated name.
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(f.dialect, name) {
			return name
		}
	}
	return f.dialect
}

// Close closes the underlying connection.
func (f *Fetcher) Close() error { return f.db.Close() }

// FetchRelated implements reltree.Fetcher. It issues one SELECT
// returning the records of typ linked through via to any of the given
// parent ids, ordered by the primary-key column.
func (f *Fetcher) FetchRelated(ctx context.Context, typ *schema.EntityType, via *schema.RelationField, ids []any) ([]reltree.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, err := f.relatedQuery(typ, via, len(ids))
	if err != nil {
		return nil, err
	}
	rows, err := f.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return nil, fmt.Errorf("sql: querying %s records: %w", typ.Name, err)
	}
	defer rows.Close()
	return scanRows(rows, idColumn(typ))
}

// relatedQuery builds the SELECT for one propagation hop. The shape of
// the predicate depends on which table holds the relation columns:
//
//	M2O / forward O2O   fk on the parent's table, sub-select the referenced ids
//	O2M / reverse O2O   fk on typ's table, filter it directly
//	M2M                 sub-select the related ids from the join table
func (f *Fetcher) relatedQuery(typ *schema.EntityType, via *schema.RelationField, n int) (string, error) {
	rel := via.StorageRel()
	if rel == nil {
		return "", fmt.Errorf("sql: relation %s has no storage information", via)
	}
	table, idcol := typ.Table, idColumn(typ)
	parentID := idColumn(via.Owner)
	idents := append([]string{table, idcol, rel.Table, parentID}, rel.Columns...)
	for _, ident := range idents {
		if !isValidIdentifier(ident) {
			return "", fmt.Errorf("sql: invalid identifier %q in storage information of %s", ident, via)
		}
	}
	in := f.placeholders(n)
	var pred string
	switch {
	case via.Rel == schema.M2M:
		if len(rel.Columns) != 2 {
			return "", fmt.Errorf("sql: M2M relation %s must declare 2 join columns (got %d)", via, len(rel.Columns))
		}
		ownerCol, relatedCol := rel.Columns[0], rel.Columns[1]
		if via.IsInverse() {
			ownerCol, relatedCol = relatedCol, ownerCol
		}
		pred = fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s IN (%s))", idcol, relatedCol, rel.Table, ownerCol, in)
	case via.Rel == schema.M2O, via.Rel == schema.O2O && !via.IsInverse():
		pred = fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s IN (%s))", idcol, rel.Column(), rel.Table, parentID, in)
	case via.Rel == schema.O2M, via.Rel == schema.O2O && via.IsInverse():
		pred = fmt.Sprintf("%s IN (%s)", rel.Column(), in)
	default:
		return "", fmt.Errorf("sql: unsupported cardinality %s for relation %s", via.Rel, via)
	}
	return fmt.Sprintf("SELECT DISTINCT * FROM %s WHERE %s ORDER BY %s", table, pred, idcol), nil
}

// placeholders returns a comma-separated list of n query placeholders
// in the dialect's style.
func (f *Fetcher) placeholders(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Dialect() == dialect.Postgres {
			b.WriteString("$")
			b.WriteString(strconv.Itoa(i + 1))
		} else {
			b.WriteString("?")
		}
	}
	return b.String()
}

func idColumn(t *schema.EntityType) string {
	if t.IDColumn != "" {
		return t.IDColumn
	}
	return "id"
}

func scanRows(rows *sql.Rows, idcol string) ([]reltree.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql: reading result columns: %w", err)
	}
	var records []reltree.Record
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("sql: scanning row: %w", err)
		}
		rec := &Row{Columns: make(map[string]any, len(columns))}
		for i, c := range columns {
			v := *(values[i].(*any))
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec.Columns[c] = v
			if c == idcol {
				rec.ID = v
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
