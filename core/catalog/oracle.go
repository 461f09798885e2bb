package catalog

// oracleDialect introspects the ALL_* data dictionary views.
type oracleDialect struct{}

func (d *oracleDialect) Name() string { return "oracle" }

func (d *oracleDialect) TablesQuery() string {
	return `SELECT table_name FROM all_tables WHERE owner = UPPER(:1) ORDER BY table_name`
}

func (d *oracleDialect) ColumnsQuery() string {
	return `SELECT column_name, data_type, data_length
FROM all_tab_columns
WHERE owner = UPPER(:1) AND table_name = UPPER(:2)
ORDER BY column_id`
}

func (d *oracleDialect) PrimaryKeyQuery() string {
	return `SELECT acc.column_name
FROM all_constraints ac
JOIN all_cons_columns acc
     ON ac.owner = acc.owner
    AND ac.constraint_name = acc.constraint_name
WHERE ac.owner = UPPER(:1)
  AND ac.table_name = UPPER(:2)
  AND ac.constraint_type = 'P'
ORDER BY acc.position`
}

func (d *oracleDialect) IndexesQuery() string {
	return `SELECT index_name FROM all_indexes
WHERE owner = UPPER(:1) AND table_name = UPPER(:2)`
}

func (d *oracleDialect) TriggersQuery() string {
	return `SELECT trigger_name FROM all_triggers
WHERE table_owner = UPPER(:1) AND table_name = UPPER(:2)`
}

func (d *oracleDialect) SequencesQuery() string {
	return `SELECT sequence_name FROM all_sequences WHERE sequence_owner = UPPER(:1)`
}

func (d *oracleDialect) ViewsQuery() string {
	return `SELECT view_name FROM all_views WHERE owner = UPPER(:1)`
}

func (d *oracleDialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (d *oracleDialect) IsNumeric(dataType string) bool {
	switch dataType {
	case "NUMBER", "FLOAT", "DECIMAL", "BINARY_FLOAT", "BINARY_DOUBLE", "INTEGER":
		return true
	default:
		return false
	}
}

func (d *oracleDialect) OrderAsc(quotedCol string) string {
	return quotedCol + " ASC NULLS FIRST"
}
