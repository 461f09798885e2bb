package catalog

// mysqlDialect introspects information_schema.
type mysqlDialect struct{}

func (d *mysqlDialect) Name() string { return "mysql" }

func (d *mysqlDialect) TablesQuery() string {
	return `SELECT UPPER(table_name) FROM information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`
}

func (d *mysqlDialect) ColumnsQuery() string {
	return `SELECT UPPER(column_name), UPPER(data_type),
       COALESCE(character_maximum_length, numeric_precision, 0)
FROM information_schema.columns
WHERE table_schema = ? AND UPPER(table_name) = UPPER(?)
ORDER BY ordinal_position`
}

func (d *mysqlDialect) PrimaryKeyQuery() string {
	return `SELECT UPPER(column_name)
FROM information_schema.key_column_usage
WHERE table_schema = ? AND UPPER(table_name) = UPPER(?)
  AND constraint_name = 'PRIMARY'
ORDER BY ordinal_position`
}

func (d *mysqlDialect) IndexesQuery() string {
	return `SELECT DISTINCT UPPER(index_name)
FROM information_schema.statistics
WHERE table_schema = ? AND UPPER(table_name) = UPPER(?)`
}

func (d *mysqlDialect) TriggersQuery() string {
	return `SELECT UPPER(trigger_name)
FROM information_schema.triggers
WHERE trigger_schema = ? AND UPPER(event_object_table) = UPPER(?)`
}

func (d *mysqlDialect) SequencesQuery() string {
	// MySQL has no sequences; AUTO_INCREMENT lives on the column.
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = ? AND 1 = 0`
}

func (d *mysqlDialect) ViewsQuery() string {
	return `SELECT UPPER(table_name) FROM information_schema.views WHERE table_schema = ?`
}

func (d *mysqlDialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (d *mysqlDialect) IsNumeric(dataType string) bool {
	switch dataType {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT",
		"DECIMAL", "NUMERIC", "FLOAT", "DOUBLE":
		return true
	default:
		return false
	}
}

func (d *mysqlDialect) OrderAsc(quotedCol string) string {
	// MySQL sorts NULL first on ASC already; ISNULL makes it explicit.
	return "ISNULL(" + quotedCol + "), " + quotedCol + " ASC"
}
