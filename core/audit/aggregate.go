package audit

import (
	"context"
	"database/sql"
	"fmt"

	"migration-audit/core/catalog"
)

// ValidateAggregates issues one SUM and one AVG per side for every column
// whose declared type is numeric on both sides, and compares the results
// with exact equality. No tolerance is applied: rounding or formatting
// drift between the two sides is surfaced, not hidden.
//
// A query failure on one column is reported as a Table Error scoped to that
// column; the remaining columns still run.
func ValidateAggregates(ctx context.Context, pair Pair, old, new catalog.TableDescriptor, sink Sink) error {
	for _, col := range old.Columns {
		if !pair.Old.Numeric(col.DataType) {
			continue
		}
		newCol, ok := new.Column(col.Name)
		if !ok || !pair.New.Numeric(newCol.DataType) {
			continue
		}

		oldSum, oldAvg, err := pair.Old.SumAvg(ctx, pair.OldSchema, old.Name, col.Name)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err := recordColumnError(sink, "aggregate validation", old.Name, col.Name, err); err != nil {
				return err
			}
			continue
		}
		newSum, newAvg, err := pair.New.SumAvg(ctx, pair.NewSchema, new.Name, col.Name)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err := recordColumnError(sink, "aggregate validation", old.Name, col.Name, err); err != nil {
				return err
			}
			continue
		}

		agg := AggregateSet{
			OldSum: nullString(oldSum),
			NewSum: nullString(newSum),
			OldAvg: nullString(oldAvg),
			NewAvg: nullString(newAvg),
		}
		match := agg.OldSum == agg.NewSum && agg.OldAvg == agg.NewAvg

		if !match {
			if err := sink.Discrepancy(Discrepancy{
				Kind:       KindAggregateMismatch,
				Table:      old.Name,
				Object:     col.Name,
				Aggregates: &agg,
				Details: fmt.Sprintf("Mismatch: Old SUM=%s, New SUM=%s, Old AVG=%s, New AVG=%s",
					agg.OldSum, agg.NewSum, agg.OldAvg, agg.NewAvg),
			}); err != nil {
				return err
			}
		}

		status := "Match"
		if !match {
			status = "Mismatch"
		}
		if err := sink.Detail(Detail{
			Table:      old.Name,
			Object:     col.Name,
			Aggregates: &agg,
			Status:     status,
		}); err != nil {
			return err
		}
	}
	return nil
}

// recordColumnError writes a column-scoped Table Error discrepancy.
func recordColumnError(sink Sink, phase, table, column string, err error) error {
	qerr := &QueryError{Phase: phase, Table: table, Column: column, Err: err}
	return sink.Discrepancy(Discrepancy{
		Kind:    KindTableError,
		Table:   table,
		Object:  column,
		Details: qerr.Error(),
	})
}

// nullString renders a nullable aggregate as the driver returned it; a SQL
// NULL (empty table) renders as "NULL" so both sides compare meaningfully.
func nullString(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return v.String
}
