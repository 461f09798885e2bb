package audit_test

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"

	"migration-audit/core/audit"
	"migration-audit/core/catalog"
)

// memSink collects records in memory. Safe for concurrent use so it can
// back worker-pool tests.
type memSink struct {
	mu            sync.Mutex
	discrepancies []audit.Discrepancy
	details       []audit.Detail
	closed        bool
}

func (s *memSink) Discrepancy(rec audit.Discrepancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discrepancies = append(s.discrepancies, rec)
	return nil
}

func (s *memSink) Detail(rec audit.Detail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = append(s.details, rec)
	return nil
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memSink) kinds() []audit.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Kind, len(s.discrepancies))
	for i, d := range s.discrepancies {
		out[i] = d.Kind
	}
	return out
}

func (s *memSink) byKind(kind audit.Kind) []audit.Discrepancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Discrepancy
	for _, d := range s.discrepancies {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

type aggPair struct {
	sum sql.NullString
	avg sql.NullString
}

// fakeAdapter serves catalog metadata and table contents from memory.
// Rows must be stored pre-sorted in ascending key order, the contract a
// real cursor provides. Error maps inject failures per table or
// table.column.
type fakeAdapter struct {
	tables    map[string]catalog.TableDescriptor
	rows      map[string][][]any
	rowCounts map[string]int64
	nullCount map[string]int64
	aggs      map[string]aggPair
	sequences map[string]struct{}
	views     map[string]struct{}

	listErr     error
	rowCountErr map[string]error
	cursorErr   map[string]error
	aggErr      map[string]error
	nullErr     map[string]error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		tables:      make(map[string]catalog.TableDescriptor),
		rows:        make(map[string][][]any),
		rowCounts:   make(map[string]int64),
		nullCount:   make(map[string]int64),
		aggs:        make(map[string]aggPair),
		sequences:   make(map[string]struct{}),
		views:       make(map[string]struct{}),
		rowCountErr: make(map[string]error),
		cursorErr:   make(map[string]error),
		aggErr:      make(map[string]error),
		nullErr:     make(map[string]error),
	}
}

func (f *fakeAdapter) addTable(desc catalog.TableDescriptor, rows [][]any) {
	f.tables[desc.Name] = desc
	f.rows[desc.Name] = rows
}

func (f *fakeAdapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeAdapter) TableColumns(ctx context.Context, schema, table string) ([]catalog.ColumnDescriptor, error) {
	return f.tables[table].Columns, nil
}

func (f *fakeAdapter) PrimaryKeyColumns(ctx context.Context, schema, table string) ([]string, error) {
	return f.tables[table].PKColumns, nil
}

func (f *fakeAdapter) Indexes(ctx context.Context, schema, table string) (map[string]struct{}, error) {
	return f.tables[table].Indexes, nil
}

func (f *fakeAdapter) Triggers(ctx context.Context, schema, table string) (map[string]struct{}, error) {
	return f.tables[table].Triggers, nil
}

func (f *fakeAdapter) Sequences(ctx context.Context, schema string) (map[string]struct{}, error) {
	return f.sequences, nil
}

func (f *fakeAdapter) Views(ctx context.Context, schema string) (map[string]struct{}, error) {
	return f.views, nil
}

func (f *fakeAdapter) RowCount(ctx context.Context, schema, table string) (int64, error) {
	if err := f.rowCountErr[table]; err != nil {
		return 0, err
	}
	if count, ok := f.rowCounts[table]; ok {
		return count, nil
	}
	return int64(len(f.rows[table])), nil
}

func (f *fakeAdapter) NullCount(ctx context.Context, schema, table, column string) (int64, error) {
	if err := f.nullErr[table+"."+column]; err != nil {
		return 0, err
	}
	return f.nullCount[table+"."+column], nil
}

func (f *fakeAdapter) SumAvg(ctx context.Context, schema, table, column string) (sql.NullString, sql.NullString, error) {
	if err := f.aggErr[table+"."+column]; err != nil {
		return sql.NullString{}, sql.NullString{}, err
	}
	agg := f.aggs[table+"."+column]
	return agg.sum, agg.avg, nil
}

func (f *fakeAdapter) OpenRowCursor(ctx context.Context, schema, table string, cols, keyCols []string, chunkSize int) (catalog.RowCursor, error) {
	if err := f.cursorErr[table]; err != nil {
		return nil, err
	}
	return &sliceCursor{rows: f.rows[table]}, nil
}

func (f *fakeAdapter) Numeric(dataType string) bool {
	switch dataType {
	case "NUMBER", "INT", "DECIMAL", "FLOAT":
		return true
	default:
		return false
	}
}

// sliceCursor yields pre-sorted rows one at a time.
type sliceCursor struct {
	rows [][]any
	pos  int
}

func (c *sliceCursor) Next(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.pos >= len(c.rows) {
		return nil, io.EOF
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *sliceCursor) Close() error { return nil }

// ordersTable is the three-column fixture used across the row tests.
func ordersTable() catalog.TableDescriptor {
	return catalog.TableDescriptor{
		Name: "ORDERS",
		Columns: []catalog.ColumnDescriptor{
			{Name: "ID", DataType: "NUMBER", Length: 10},
			{Name: "NAME", DataType: "VARCHAR2", Length: 50},
			{Name: "AMOUNT", DataType: "NUMBER", Length: 10},
		},
		PKColumns: []string{"ID"},
	}
}

func pairFor(old, new *fakeAdapter) audit.Pair {
	return audit.Pair{Old: old, New: new, OldSchema: "OLD", NewSchema: "NEW"}
}
