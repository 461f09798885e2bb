package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Adapter provides read-only metadata and data access to one database side.
// All calls are side-effect-free. Table-scoped calls return an empty result,
// not an error, for a table the schema does not contain.
type Adapter interface {
	// ListTables returns the schema's table names sorted ascending.
	ListTables(ctx context.Context, schema string) ([]string, error)

	// TableColumns returns the table's columns in schema order.
	TableColumns(ctx context.Context, schema, table string) ([]ColumnDescriptor, error)

	// PrimaryKeyColumns returns the primary-key column names in declared
	// order, or an empty slice for a table without a primary key.
	PrimaryKeyColumns(ctx context.Context, schema, table string) ([]string, error)

	Indexes(ctx context.Context, schema, table string) (map[string]struct{}, error)
	Triggers(ctx context.Context, schema, table string) (map[string]struct{}, error)
	Sequences(ctx context.Context, schema string) (map[string]struct{}, error)
	Views(ctx context.Context, schema string) (map[string]struct{}, error)

	// RowCount returns SELECT COUNT(*) for the table.
	RowCount(ctx context.Context, schema, table string) (int64, error)

	// NullCount returns the number of rows where the column is NULL.
	NullCount(ctx context.Context, schema, table, column string) (int64, error)

	// SumAvg returns SUM and AVG for a numeric column, in the exact form
	// the driver produced them. Either value is invalid for an empty table.
	SumAvg(ctx context.Context, schema, table, column string) (sum, avg sql.NullString, err error)

	// OpenRowCursor opens an ascending-key-ordered cursor over the full
	// rows of the table, with NULL sorting before all non-null values in
	// every key column. Rows are buffered in windows of at most chunkSize.
	OpenRowCursor(ctx context.Context, schema, table string, cols, keyCols []string, chunkSize int) (RowCursor, error)

	// Numeric reports whether a declared data type is numeric under this
	// side's dialect.
	Numeric(dataType string) bool
}

// sqlAdapter implements Adapter on top of database/sql and a Dialect.
type sqlAdapter struct {
	db      *sql.DB
	dialect Dialect
}

// NewAdapter wraps an open connection pool in an Adapter.
func NewAdapter(db *sql.DB, dialect Dialect) Adapter {
	return &sqlAdapter{db: db, dialect: dialect}
}

func (a *sqlAdapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	return a.queryNames(ctx, a.dialect.TablesQuery(), schema)
}

func (a *sqlAdapter) TableColumns(ctx context.Context, schema, table string) ([]ColumnDescriptor, error) {
	rows, err := a.db.QueryContext(ctx, a.dialect.ColumnsQuery(), schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var cols []ColumnDescriptor
	for rows.Next() {
		var c ColumnDescriptor
		var length sql.NullInt64
		if err := rows.Scan(&c.Name, &c.DataType, &length); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}
		c.Name = strings.ToUpper(c.Name)
		c.DataType = strings.ToUpper(c.DataType)
		c.Length = length.Int64
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (a *sqlAdapter) PrimaryKeyColumns(ctx context.Context, schema, table string) ([]string, error) {
	return a.queryNames(ctx, a.dialect.PrimaryKeyQuery(), schema, table)
}

func (a *sqlAdapter) Indexes(ctx context.Context, schema, table string) (map[string]struct{}, error) {
	return a.queryNameSet(ctx, a.dialect.IndexesQuery(), schema, table)
}

func (a *sqlAdapter) Triggers(ctx context.Context, schema, table string) (map[string]struct{}, error) {
	return a.queryNameSet(ctx, a.dialect.TriggersQuery(), schema, table)
}

func (a *sqlAdapter) Sequences(ctx context.Context, schema string) (map[string]struct{}, error) {
	return a.queryNameSet(ctx, a.dialect.SequencesQuery(), schema)
}

func (a *sqlAdapter) Views(ctx context.Context, schema string) (map[string]struct{}, error) {
	return a.queryNameSet(ctx, a.dialect.ViewsQuery(), schema)
}

func (a *sqlAdapter) RowCount(ctx context.Context, schema, table string) (int64, error) {
	target, err := a.qualify(schema, table)
	if err != nil {
		return 0, err
	}
	var count int64
	query := "SELECT COUNT(*) FROM " + target
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s.%s: %w", schema, table, err)
	}
	return count, nil
}

func (a *sqlAdapter) NullCount(ctx context.Context, schema, table, column string) (int64, error) {
	target, err := a.qualify(schema, table)
	if err != nil {
		return 0, err
	}
	if err := ValidateIdent(column); err != nil {
		return 0, err
	}
	var count int64
	query := "SELECT COUNT(*) FROM " + target + " WHERE " + a.dialect.QuoteIdent(column) + " IS NULL"
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count nulls in %s.%s.%s: %w", schema, table, column, err)
	}
	return count, nil
}

func (a *sqlAdapter) SumAvg(ctx context.Context, schema, table, column string) (sql.NullString, sql.NullString, error) {
	var sum, avg sql.NullString
	target, err := a.qualify(schema, table)
	if err != nil {
		return sum, avg, err
	}
	if err := ValidateIdent(column); err != nil {
		return sum, avg, err
	}
	col := a.dialect.QuoteIdent(column)
	query := "SELECT SUM(" + col + "), AVG(" + col + ") FROM " + target
	if err := a.db.QueryRowContext(ctx, query).Scan(&sum, &avg); err != nil {
		return sum, avg, fmt.Errorf("failed to aggregate %s.%s.%s: %w", schema, table, column, err)
	}
	return sum, avg, nil
}

func (a *sqlAdapter) OpenRowCursor(ctx context.Context, schema, table string, cols, keyCols []string, chunkSize int) (RowCursor, error) {
	target, err := a.qualify(schema, table)
	if err != nil {
		return nil, err
	}
	if err := ValidateIdents(cols...); err != nil {
		return nil, err
	}
	if err := ValidateIdents(keyCols...); err != nil {
		return nil, err
	}

	selects := make([]string, len(cols))
	for i, c := range cols {
		selects[i] = a.dialect.QuoteIdent(c)
	}
	orders := make([]string, len(keyCols))
	for i, c := range keyCols {
		orders[i] = a.dialect.OrderAsc(a.dialect.QuoteIdent(c))
	}

	query := "SELECT " + strings.Join(selects, ", ") +
		" FROM " + target +
		" ORDER BY " + strings.Join(orders, ", ")

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to open row cursor on %s.%s: %w", schema, table, err)
	}
	return newSQLRowCursor(rows, len(cols), chunkSize), nil
}

func (a *sqlAdapter) Numeric(dataType string) bool {
	return a.dialect.IsNumeric(dataType)
}

// qualify validates and quotes a schema-qualified table name.
func (a *sqlAdapter) qualify(schema, table string) (string, error) {
	if err := ValidateIdents(schema, table); err != nil {
		return "", err
	}
	return a.dialect.QuoteIdent(schema) + "." + a.dialect.QuoteIdent(table), nil
}

func (a *sqlAdapter) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		names = append(names, strings.ToUpper(name))
	}
	return names, rows.Err()
}

func (a *sqlAdapter) queryNameSet(ctx context.Context, query string, args ...any) (map[string]struct{}, error) {
	names, err := a.queryNames(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}
