// Package audit implements the reconciliation engine: the comparison
// algorithms that decide whether the new database is a faithful copy of
// the old one.
//
// # Phases
//
// A Run sequences five comparison phases. Structure comparison is a pure
// function over two catalog snapshots. Count, aggregate and null
// validation issue O(columns) queries per table to catch gross divergence
// cheaply. Row reconciliation is the expensive phase: a chunked
// key-ordered merge-diff that walks both sides' cursors in lockstep and
// streams every cell mismatch, missing row and extra row to the report
// sink while never holding more than one chunk of rows per side in
// memory.
//
// # Failure isolation
//
// A broken connection is fatal to the run. Anything narrower, such as a
// failed query or a column that cannot be aggregated, scopes to its table
// or column: it is recorded as a Table Error and the audit moves on. The run never mutates either database; every operation is
// read-only.
package audit
