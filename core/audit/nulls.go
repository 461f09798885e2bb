package audit

import (
	"context"
	"fmt"
	"strconv"

	"migration-audit/core/catalog"
)

// ValidateNulls verifies that per-column NULL counts are identical on both
// sides for every column the two tables share. Errors scope to the column.
func ValidateNulls(ctx context.Context, pair Pair, old, new catalog.TableDescriptor, sink Sink) error {
	for _, col := range old.Columns {
		if _, ok := new.Column(col.Name); !ok {
			continue
		}

		oldNulls, err := pair.Old.NullCount(ctx, pair.OldSchema, old.Name, col.Name)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err := recordColumnError(sink, "null verification", old.Name, col.Name, err); err != nil {
				return err
			}
			continue
		}
		newNulls, err := pair.New.NullCount(ctx, pair.NewSchema, new.Name, col.Name)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err := recordColumnError(sink, "null verification", old.Name, col.Name, err); err != nil {
				return err
			}
			continue
		}

		if oldNulls != newNulls {
			if err := sink.Discrepancy(Discrepancy{
				Kind:     KindNullCountMismatch,
				Table:    old.Name,
				Object:   col.Name,
				OldValue: strconv.FormatInt(oldNulls, 10),
				NewValue: strconv.FormatInt(newNulls, 10),
				Details: fmt.Sprintf("Mismatch in null count for column '%s' in table '%s'.",
					col.Name, old.Name),
			}); err != nil {
				return err
			}
		}

		if err := sink.Detail(Detail{
			Table:    old.Name,
			Object:   col.Name,
			OldValue: strconv.FormatInt(oldNulls, 10),
			NewValue: strconv.FormatInt(newNulls, 10),
			Status:   matchStatus(oldNulls == newNulls),
		}); err != nil {
			return err
		}
	}
	return nil
}

func matchStatus(ok bool) string {
	if ok {
		return "Match"
	}
	return "Mismatch"
}
