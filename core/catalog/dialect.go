package catalog

import "fmt"

// Dialect abstracts the database-specific parts of catalog introspection
// and row fetching: metadata queries, identifier quoting, numeric type
// classification and NULLS FIRST ordering.
type Dialect interface {
	// Name returns the dialect name (oracle, mysql, postgres).
	Name() string

	// Metadata queries. Each takes the schema (and table) as bind
	// parameters, never interpolated into the SQL text.
	TablesQuery() string
	ColumnsQuery() string
	PrimaryKeyQuery() string
	IndexesQuery() string
	TriggersQuery() string
	SequencesQuery() string
	ViewsQuery() string

	// QuoteIdent quotes a catalog-confirmed identifier for use in
	// generated SQL.
	QuoteIdent(name string) string

	// IsNumeric reports whether the declared data type participates in
	// SUM/AVG validation.
	IsNumeric(dataType string) bool

	// OrderAsc returns the ORDER BY expression for one key column with
	// NULL values sorting before all non-null values.
	OrderAsc(quotedCol string) string
}

// NewDialect returns the dialect for the given driver name.
func NewDialect(driver string) (Dialect, error) {
	switch driver {
	case "oracle":
		return &oracleDialect{}, nil
	case "mysql":
		return &mysqlDialect{}, nil
	case "postgres":
		return &postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
