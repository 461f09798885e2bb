package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"migration-audit/core/catalog"
)

// ReconcileRows performs the chunked key-ordered merge-diff of one table's
// contents. Both sides are walked through ascending-key cursors in
// lockstep, the classic sorted merge-join applied to discrepancy
// detection. Memory stays bounded by one chunk of rows per side;
// discrepancies stream to the sink as they are found.
//
// Keys are the primary-key columns in declared order. A table without a
// primary key falls back to the full row tuple, which collapses duplicate
// rows to one key on each side.
//
// Every column compares under its declared type's order: exact decimal
// comparison for columns numeric on both sides, byte-wise otherwise. That
// is the same order the cursors' ORDER BY delivers, which the merge
// depends on.
func ReconcileRows(ctx context.Context, pair Pair, old, new catalog.TableDescriptor, chunkSize int, sink Sink) error {
	oldNames := old.ColumnNames()
	newNames := new.ColumnNames()

	// Positional comparison across differing schemas is unsafe; skip the
	// row phase for this table and report the structural difference once.
	if !equalNames(oldNames, newNames) {
		return sink.Discrepancy(Discrepancy{
			Kind:  KindColumnStructureMismatch,
			Table: old.Name,
			Details: fmt.Sprintf("Column structure differs: Old(%s) vs New(%s)",
				strings.Join(oldNames, ", "), strings.Join(newNames, ", ")),
		})
	}

	keyCols := old.PKColumns
	if len(keyCols) == 0 {
		keyCols = oldNames
	}
	keyIdx, err := keyIndexes(oldNames, keyCols)
	if err != nil {
		return &QueryError{Phase: "row reconciliation", Table: old.Name, Err: err}
	}

	oldCur, err := pair.Old.OpenRowCursor(ctx, pair.OldSchema, old.Name, oldNames, keyCols, chunkSize)
	if err != nil {
		return &QueryError{Phase: "row reconciliation", Table: old.Name, Err: err}
	}
	defer oldCur.Close()

	newCur, err := pair.New.OpenRowCursor(ctx, pair.NewSchema, new.Name, newNames, keyCols, chunkSize)
	if err != nil {
		return &QueryError{Phase: "row reconciliation", Table: old.Name, Err: err}
	}
	defer newCur.Close()

	cmps := columnComparators(pair, old, new)
	keyCmps := make([]Comparator, len(keyIdx))
	for i, idx := range keyIdx {
		keyCmps[i] = cmps[idx]
	}

	m := &merger{
		table:   old.Name,
		columns: oldNames,
		keyIdx:  keyIdx,
		cmps:    cmps,
		keyCmps: keyCmps,
		sink:    sink,
	}
	if err := m.run(ctx, oldCur, newCur); err != nil {
		if IsCancellation(err) {
			return err
		}
		return &QueryError{Phase: "row reconciliation", Table: old.Name, Err: err}
	}

	return sink.Detail(Detail{
		Table:    old.Name,
		OldValue: strconv.FormatInt(m.oldRows, 10),
		NewValue: strconv.FormatInt(m.newRows, 10),
		Status:   matchStatus(m.found == 0),
	})
}

// merger walks the two cursors in lockstep.
type merger struct {
	table   string
	columns []string
	keyIdx  []int
	cmps    []Comparator
	keyCmps []Comparator
	sink    Sink

	oldRows int64
	newRows int64
	found   int64
}

func (m *merger) run(ctx context.Context, oldCur, newCur catalog.RowCursor) error {
	oldRow, oldOK, err := m.advance(ctx, oldCur, &m.oldRows)
	if err != nil {
		return err
	}
	newRow, newOK, err := m.advance(ctx, newCur, &m.newRows)
	if err != nil {
		return err
	}

	for oldOK && newOK {
		switch c := CompareKeys(m.keyCmps, m.key(oldRow), m.key(newRow)); {
		case c == 0:
			if err := m.compareCells(oldRow, newRow); err != nil {
				return err
			}
			if oldRow, oldOK, err = m.advance(ctx, oldCur, &m.oldRows); err != nil {
				return err
			}
			if newRow, newOK, err = m.advance(ctx, newCur, &m.newRows); err != nil {
				return err
			}
		case c < 0:
			if err := m.missing(oldRow); err != nil {
				return err
			}
			if oldRow, oldOK, err = m.advance(ctx, oldCur, &m.oldRows); err != nil {
				return err
			}
		default:
			if err := m.extra(newRow); err != nil {
				return err
			}
			if newRow, newOK, err = m.advance(ctx, newCur, &m.newRows); err != nil {
				return err
			}
		}
	}

	// Standard merge-join termination: anything left on one side is
	// missing from, or extra in, the other.
	for oldOK {
		if err := m.missing(oldRow); err != nil {
			return err
		}
		if oldRow, oldOK, err = m.advance(ctx, oldCur, &m.oldRows); err != nil {
			return err
		}
	}
	for newOK {
		if err := m.extra(newRow); err != nil {
			return err
		}
		if newRow, newOK, err = m.advance(ctx, newCur, &m.newRows); err != nil {
			return err
		}
	}
	return nil
}

func (m *merger) advance(ctx context.Context, cur catalog.RowCursor, count *int64) ([]any, bool, error) {
	row, err := cur.Next(ctx)
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	*count++
	return row, true, nil
}

func (m *merger) key(row []any) []any {
	key := make([]any, len(m.keyIdx))
	for i, idx := range m.keyIdx {
		key[i] = row[idx]
	}
	return key
}

func (m *merger) compareCells(oldRow, newRow []any) error {
	key := RenderKey(m.key(oldRow))
	for i, col := range m.columns {
		if m.cmps[i](oldRow[i], newRow[i]) == 0 {
			continue
		}
		m.found++
		if err := m.sink.Discrepancy(Discrepancy{
			Kind:     KindCellMismatch,
			Table:    m.table,
			Object:   col,
			Key:      key,
			OldValue: RenderValue(oldRow[i]),
			NewValue: RenderValue(newRow[i]),
			Details: fmt.Sprintf("Mismatch in column '%s' for key %s: Old(%s) vs New(%s)",
				col, key, RenderValue(oldRow[i]), RenderValue(newRow[i])),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *merger) missing(row []any) error {
	m.found++
	return m.sink.Discrepancy(Discrepancy{
		Kind:     KindMissingRowInTarget,
		Table:    m.table,
		Key:      RenderKey(m.key(row)),
		OldValue: RenderKey(row),
		Details:  "Row missing in the new database: " + RenderKey(row),
	})
}

func (m *merger) extra(row []any) error {
	m.found++
	return m.sink.Discrepancy(Discrepancy{
		Kind:     KindExtraRowInTarget,
		Table:    m.table,
		Key:      RenderKey(m.key(row)),
		NewValue: RenderKey(row),
		Details:  "Row extra in the new database: " + RenderKey(row),
	})
}

// columnComparators selects each column's comparator from the declared
// types: exact decimal for a column numeric on both sides, byte-wise for
// everything else. Sniffing the values instead would let a numeric-looking
// VARCHAR key order differently from its cursor and derail the merge.
func columnComparators(pair Pair, old, new catalog.TableDescriptor) []Comparator {
	cmps := make([]Comparator, len(old.Columns))
	for i, col := range old.Columns {
		cmps[i] = ByteCompare
		if nc, ok := new.Column(col.Name); ok &&
			pair.Old.Numeric(col.DataType) && pair.New.Numeric(nc.DataType) {
			cmps[i] = NumericCompare
		}
	}
	return cmps
}

func keyIndexes(columns, keyCols []string) ([]int, error) {
	idx := make([]int, len(keyCols))
	for i, key := range keyCols {
		found := -1
		for j, col := range columns {
			if col == key {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("primary key column %s not present in column list", key)
		}
		idx[i] = found
	}
	return idx, nil
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
