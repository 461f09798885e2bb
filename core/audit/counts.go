package audit

import (
	"context"
	"fmt"

	"migration-audit/core/catalog"
)

// Pair bundles the two sides of an audit: one adapter and schema name each.
type Pair struct {
	Old       catalog.Adapter
	New       catalog.Adapter
	OldSchema string
	NewSchema string
}

// ValidateCounts compares row counts, column counts and total cell counts
// (rows times columns) for one common table. A query failure is returned as
// a QueryError scoped to the table; the caller records it and moves on.
func ValidateCounts(ctx context.Context, pair Pair, old, new catalog.TableDescriptor, sink Sink) error {
	oldRows, err := pair.Old.RowCount(ctx, pair.OldSchema, old.Name)
	if err != nil {
		return &QueryError{Phase: "count validation", Table: old.Name, Err: err}
	}
	newRows, err := pair.New.RowCount(ctx, pair.NewSchema, new.Name)
	if err != nil {
		return &QueryError{Phase: "count validation", Table: new.Name, Err: err}
	}

	counts := CountSet{
		OldRows: oldRows,
		NewRows: newRows,
		OldCols: int64(len(old.Columns)),
		NewCols: int64(len(new.Columns)),
	}
	counts.OldTotals = counts.OldRows * counts.OldCols
	counts.NewTotals = counts.NewRows * counts.NewCols

	if counts.OldRows != counts.NewRows {
		if err := sink.Discrepancy(Discrepancy{
			Kind:   KindRowCountMismatch,
			Table:  old.Name,
			Counts: &counts,
			Details: fmt.Sprintf("Row counts do not match: Old=%d, New=%d",
				counts.OldRows, counts.NewRows),
		}); err != nil {
			return err
		}
	}
	if counts.OldTotals != counts.NewTotals {
		if err := sink.Discrepancy(Discrepancy{
			Kind:   KindTotalValueMismatch,
			Table:  old.Name,
			Counts: &counts,
			Details: fmt.Sprintf("Mismatch in total values (rows*columns): Old=%d, New=%d",
				counts.OldTotals, counts.NewTotals),
		}); err != nil {
			return err
		}
	}

	return sink.Detail(Detail{
		Table:  old.Name,
		Counts: &counts,
		Status: "OK",
	})
}
