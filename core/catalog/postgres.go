package catalog

import "strings"

// postgresDialect introspects information_schema and pg_catalog.
type postgresDialect struct{}

func (d *postgresDialect) Name() string { return "postgres" }

func (d *postgresDialect) TablesQuery() string {
	return `SELECT UPPER(table_name) FROM information_schema.tables
WHERE table_schema = LOWER($1) AND table_type = 'BASE TABLE'
ORDER BY table_name`
}

func (d *postgresDialect) ColumnsQuery() string {
	return `SELECT UPPER(column_name), UPPER(data_type),
       COALESCE(character_maximum_length, numeric_precision, 0)
FROM information_schema.columns
WHERE table_schema = LOWER($1) AND LOWER(table_name) = LOWER($2)
ORDER BY ordinal_position`
}

func (d *postgresDialect) PrimaryKeyQuery() string {
	return `SELECT UPPER(kcu.column_name)
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
     ON tc.constraint_name = kcu.constraint_name
    AND tc.table_schema = kcu.table_schema
WHERE tc.table_schema = LOWER($1) AND LOWER(tc.table_name) = LOWER($2)
  AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`
}

func (d *postgresDialect) IndexesQuery() string {
	return `SELECT UPPER(indexname) FROM pg_indexes
WHERE schemaname = LOWER($1) AND LOWER(tablename) = LOWER($2)`
}

func (d *postgresDialect) TriggersQuery() string {
	return `SELECT DISTINCT UPPER(trigger_name)
FROM information_schema.triggers
WHERE trigger_schema = LOWER($1) AND LOWER(event_object_table) = LOWER($2)`
}

func (d *postgresDialect) SequencesQuery() string {
	return `SELECT UPPER(sequence_name) FROM information_schema.sequences
WHERE sequence_schema = LOWER($1)`
}

func (d *postgresDialect) ViewsQuery() string {
	return `SELECT UPPER(table_name) FROM information_schema.views
WHERE table_schema = LOWER($1)`
}

func (d *postgresDialect) QuoteIdent(name string) string {
	// Snapshots normalize names to upper case; postgres folds unquoted
	// identifiers to lower case, so quote the folded form.
	return `"` + strings.ToLower(name) + `"`
}

func (d *postgresDialect) IsNumeric(dataType string) bool {
	switch dataType {
	case "SMALLINT", "INTEGER", "BIGINT", "DECIMAL", "NUMERIC",
		"REAL", "DOUBLE PRECISION":
		return true
	default:
		return false
	}
}

func (d *postgresDialect) OrderAsc(quotedCol string) string {
	return quotedCol + " ASC NULLS FIRST"
}
