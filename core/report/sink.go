package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"migration-audit/core/audit"
)

// Category describes one report: its file prefix, its CSV field set and
// how records map onto rows.
type Category struct {
	Prefix string
	Fields []string

	discrepancyRow func(audit.Discrepancy) []string
	detailRow      func(audit.Detail) []string
}

// The report categories, with field sets and file names matching the
// audit deliverables.
var (
	Structural = Category{
		Prefix: "table_hygiene_check",
		Fields: []string{"Type", "Table", "Object", "Old Value", "New Value", "Details"},
		discrepancyRow: func(d audit.Discrepancy) []string {
			return []string{string(d.Kind), d.Table, d.Object, d.OldValue, d.NewValue, d.Details}
		},
		detailRow: func(d audit.Detail) []string {
			return []string{"Detailed Comparison", d.Table, d.Object, d.OldValue, d.NewValue, d.Status}
		},
	}

	Counts = Category{
		Prefix: "count_validation",
		Fields: []string{
			"Type", "Table",
			"Old Row Count", "New Row Count",
			"Old Column Count", "New Column Count",
			"Old Total Values", "New Total Values",
			"Details",
		},
		discrepancyRow: func(d audit.Discrepancy) []string {
			return append([]string{string(d.Kind), d.Table}, append(countCells(d.Counts), d.Details)...)
		},
		detailRow: func(d audit.Detail) []string {
			return append([]string{"Detailed Comparison", d.Table}, append(countCells(d.Counts), d.Status)...)
		},
	}

	Aggregates = Category{
		Prefix: "aggregate_function_validation",
		Fields: []string{"Type", "Table", "Column", "Old SUM", "New SUM", "Old AVG", "New AVG", "Details"},
		discrepancyRow: func(d audit.Discrepancy) []string {
			return append([]string{string(d.Kind), d.Table, d.Object}, append(aggregateCells(d.Aggregates), d.Details)...)
		},
		detailRow: func(d audit.Detail) []string {
			return append([]string{"Detailed Comparison", d.Table, d.Object}, append(aggregateCells(d.Aggregates), d.Status)...)
		},
	}

	Nulls = Category{
		Prefix: "null_value_verification",
		Fields: []string{"Type", "Table", "Column", "Old Null Count", "New Null Count", "Details"},
		discrepancyRow: func(d audit.Discrepancy) []string {
			return []string{string(d.Kind), d.Table, d.Object, d.OldValue, d.NewValue, d.Details}
		},
		detailRow: func(d audit.Detail) []string {
			return []string{"Detailed Comparison", d.Table, d.Object, d.OldValue, d.NewValue, d.Status}
		},
	}

	Rows = Category{
		Prefix: "value_by_value_check",
		Fields: []string{"Type", "Table", "Column", "Row Key", "Old Value", "New Value", "Details"},
		discrepancyRow: func(d audit.Discrepancy) []string {
			return []string{string(d.Kind), d.Table, d.Object, d.Key, d.OldValue, d.NewValue, d.Details}
		},
		detailRow: func(d audit.Detail) []string {
			return []string{"Detailed Comparison", d.Table, "", "", d.OldValue, d.NewValue, d.Status}
		},
	}
)

// CSVSink writes one report category as a series of bounded, self-contained
// CSV batch files named {prefix}_batch_{n}.csv. Each file carries its own
// header, a discrepancy section and a detailed-comparison section, so no
// single output unit grows unbounded and every unit parses on its own.
// Safe for concurrent use by the worker pool.
type CSVSink struct {
	mu        sync.Mutex
	dir       string
	cat       Category
	batchSize int

	discrepancies [][]string
	details       [][]string
	batch         int
	closed        bool
}

// NewCSVSink creates the output directory and returns a sink for one
// category. batchSize bounds the records per output unit.
func NewCSVSink(dir string, cat Category, batchSize int) (*CSVSink, error) {
	if batchSize < 1 {
		batchSize = 100
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &CSVSink{dir: dir, cat: cat, batchSize: batchSize}, nil
}

func (s *CSVSink) Discrepancy(rec audit.Discrepancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discrepancies = append(s.discrepancies, s.cat.discrepancyRow(rec))
	return s.maybeFlush()
}

func (s *CSVSink) Detail(rec audit.Detail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = append(s.details, s.cat.detailRow(rec))
	return s.maybeFlush()
}

// Close flushes the remaining records. A report with no records at all
// still produces one batch stating that no discrepancies were noted.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if len(s.discrepancies) == 0 && len(s.details) == 0 && s.batch > 0 {
		return nil
	}
	return s.flush()
}

func (s *CSVSink) maybeFlush() error {
	if len(s.discrepancies)+len(s.details) < s.batchSize {
		return nil
	}
	return s.flush()
}

// flush writes one batch file: discrepancies first, then the detailed
// comparison section.
func (s *CSVSink) flush() error {
	s.batch++
	name := fmt.Sprintf("%s_batch_%d.csv", s.cat.Prefix, s.batch)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.cat.Fields); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	if len(s.discrepancies) == 0 {
		if err := w.Write(padRow([]string{"No discrepancies noted"}, len(s.cat.Fields))); err != nil {
			return err
		}
	}
	for _, row := range s.discrepancies {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	if len(s.details) > 0 {
		if err := w.Write(padRow([]string{"Detailed Comparison Below"}, len(s.cat.Fields))); err != nil {
			return err
		}
		for _, row := range s.details {
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush report batch %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report batch %s: %w", name, err)
	}

	s.discrepancies = s.discrepancies[:0]
	s.details = s.details[:0]
	return nil
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func countCells(c *audit.CountSet) []string {
	if c == nil {
		return []string{"", "", "", "", "", ""}
	}
	return []string{
		strconv.FormatInt(c.OldRows, 10), strconv.FormatInt(c.NewRows, 10),
		strconv.FormatInt(c.OldCols, 10), strconv.FormatInt(c.NewCols, 10),
		strconv.FormatInt(c.OldTotals, 10), strconv.FormatInt(c.NewTotals, 10),
	}
}

func aggregateCells(a *audit.AggregateSet) []string {
	if a == nil {
		return []string{"", "", "", ""}
	}
	return []string{a.OldSum, a.NewSum, a.OldAvg, a.NewAvg}
}
