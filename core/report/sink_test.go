package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"migration-audit/core/audit"
	"migration-audit/core/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBatch(t *testing.T, dir, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func batchFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCSVSinkEmptyReport(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Rows, 100)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	// An empty report still produces one batch stating the outcome.
	assert.Equal(t, []string{"value_by_value_check_batch_1.csv"}, batchFiles(t, dir))

	records := readBatch(t, dir, "value_by_value_check_batch_1.csv")
	require.Len(t, records, 2)
	assert.Equal(t, report.Rows.Fields, records[0])
	assert.Equal(t, "No discrepancies noted", records[1][0])
}

func TestCSVSinkSections(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Rows, 100)
	require.NoError(t, err)

	require.NoError(t, sink.Discrepancy(audit.Discrepancy{
		Kind:     audit.KindCellMismatch,
		Table:    "ORDERS",
		Object:   "AMOUNT",
		Key:      "(1)",
		OldValue: "100",
		NewValue: "150",
		Details:  "Mismatch in column 'AMOUNT' for key (1): Old(100) vs New(150)",
	}))
	require.NoError(t, sink.Detail(audit.Detail{
		Table: "ORDERS", OldValue: "2", NewValue: "2", Status: "Mismatch",
	}))
	require.NoError(t, sink.Close())

	records := readBatch(t, dir, "value_by_value_check_batch_1.csv")
	require.Len(t, records, 4)
	assert.Equal(t, report.Rows.Fields, records[0])
	assert.Equal(t, []string{
		"Cell Value Mismatch", "ORDERS", "AMOUNT", "(1)", "100", "150",
		"Mismatch in column 'AMOUNT' for key (1): Old(100) vs New(150)",
	}, records[1])
	assert.Equal(t, "Detailed Comparison Below", records[2][0])
	assert.Equal(t, "Detailed Comparison", records[3][0])
	assert.Equal(t, "Mismatch", records[3][6])
}

func TestCSVSinkBatching(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Nulls, 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, sink.Discrepancy(audit.Discrepancy{
			Kind:  audit.KindNullCountMismatch,
			Table: "ORDERS",
		}))
	}
	require.NoError(t, sink.Close())

	// Five records at two per batch: three files, none above the bound.
	assert.Equal(t, []string{
		"null_value_verification_batch_1.csv",
		"null_value_verification_batch_2.csv",
		"null_value_verification_batch_3.csv",
	}, batchFiles(t, dir))

	// Each batch is self-contained with its own header.
	for _, name := range batchFiles(t, dir) {
		records := readBatch(t, dir, name)
		assert.Equal(t, report.Nulls.Fields, records[0])
		assert.LessOrEqual(t, len(records), 3)
	}
}

func TestCSVSinkCountsFields(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Counts, 100)
	require.NoError(t, err)

	counts := &audit.CountSet{
		OldRows: 10, NewRows: 9,
		OldCols: 3, NewCols: 3,
		OldTotals: 30, NewTotals: 27,
	}
	require.NoError(t, sink.Discrepancy(audit.Discrepancy{
		Kind:    audit.KindRowCountMismatch,
		Table:   "ORDERS",
		Counts:  counts,
		Details: "Row counts do not match: Old=10, New=9",
	}))
	require.NoError(t, sink.Close())

	records := readBatch(t, dir, "count_validation_batch_1.csv")
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Row Count Mismatch", "ORDERS",
		"10", "9", "3", "3", "30", "27",
		"Row counts do not match: Old=10, New=9",
	}, records[1])
}

func TestCSVSinkAggregateFields(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Aggregates, 100)
	require.NoError(t, err)

	require.NoError(t, sink.Detail(audit.Detail{
		Table:  "ORDERS",
		Object: "AMOUNT",
		Aggregates: &audit.AggregateSet{
			OldSum: "600", NewSum: "600", OldAvg: "200", NewAvg: "200",
		},
		Status: "Match",
	}))
	require.NoError(t, sink.Close())

	records := readBatch(t, dir, "aggregate_function_validation_batch_1.csv")
	require.Len(t, records, 4)
	assert.Equal(t, "No discrepancies noted", records[1][0])
	assert.Equal(t, []string{
		"Detailed Comparison", "ORDERS", "AMOUNT", "600", "600", "200", "200", "Match",
	}, records[3])
}

func TestCSVSinkCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sink, err := report.NewCSVSink(dir, report.Structural, 100)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	assert.Len(t, batchFiles(t, dir), 1)
}
