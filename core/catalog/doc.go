// Package catalog provides read-only metadata and row access to the two
// databases under audit.
//
// The Adapter interface exposes the catalog surface the audit engine
// consumes: table lists, column definitions, primary keys, indexes,
// triggers, sequences, views, row counts, aggregates and key-ordered row
// cursors. A single implementation over database/sql covers all supported
// engines; the per-engine differences (dictionary views, identifier
// quoting, bind placeholders, NULLS FIRST ordering) live behind the
// Dialect interface.
//
// # Identifier safety
//
// Schema, table and column names are only ever embedded into generated SQL
// after passing ValidateIdent and being quoted by the dialect. Catalog
// queries bind the schema and table as parameters.
//
// # Usage
//
//	dialect, _ := catalog.NewDialect("oracle")
//	adapter := catalog.NewAdapter(db, dialect)
//	snap, err := catalog.BuildSnapshot(ctx, adapter, "HR")
package catalog
