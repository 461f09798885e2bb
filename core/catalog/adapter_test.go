package catalog_test

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"migration-audit/core/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (catalog.Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialect, err := catalog.NewDialect("oracle")
	require.NoError(t, err)
	return catalog.NewAdapter(db, dialect), mock
}

func TestListTables(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT table_name FROM all_tables WHERE owner = UPPER(:1) ORDER BY table_name`).
		WithArgs("app").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("customers").
			AddRow("ORDERS"))

	tables, err := adapter.ListTables(context.Background(), "app")
	require.NoError(t, err)
	// Names are normalized to upper case.
	assert.Equal(t, []string{"CUSTOMERS", "ORDERS"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableColumns(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT column_name, data_type, data_length
FROM all_tab_columns
WHERE owner = UPPER(:1) AND table_name = UPPER(:2)
ORDER BY column_id`).
		WithArgs("APP", "ORDERS").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "DATA_LENGTH"}).
			AddRow("ID", "NUMBER", 22).
			AddRow("NAME", "VARCHAR2", 50))

	cols, err := adapter.TableColumns(context.Background(), "APP", "ORDERS")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, catalog.ColumnDescriptor{Name: "ID", DataType: "NUMBER", Length: 22}, cols[0])
	assert.Equal(t, catalog.ColumnDescriptor{Name: "NAME", DataType: "VARCHAR2", Length: 50}, cols[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCount(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT COUNT(*) FROM "APP"."ORDERS"`).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(42))

	count, err := adapter.RowCount(context.Background(), "APP", "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCountRejectsUnsafeIdent(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	_, err := adapter.RowCount(context.Background(), "APP", "ORDERS; DROP TABLE X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsafe characters")
	// No query reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullCount(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT COUNT(*) FROM "APP"."ORDERS" WHERE "AMOUNT" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

	count, err := adapter.NullCount(context.Background(), "APP", "ORDERS", "AMOUNT")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumAvg(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT SUM("AMOUNT"), AVG("AMOUNT") FROM "APP"."ORDERS"`).
		WillReturnRows(sqlmock.NewRows([]string{"SUM", "AVG"}).AddRow("600", "200"))

	sum, avg, err := adapter.SumAvg(context.Background(), "APP", "ORDERS", "AMOUNT")
	require.NoError(t, err)
	assert.True(t, sum.Valid)
	assert.Equal(t, "600", sum.String)
	assert.True(t, avg.Valid)
	assert.Equal(t, "200", avg.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumAvgEmptyTable(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT SUM("AMOUNT"), AVG("AMOUNT") FROM "APP"."ORDERS"`).
		WillReturnRows(sqlmock.NewRows([]string{"SUM", "AVG"}).AddRow(nil, nil))

	sum, avg, err := adapter.SumAvg(context.Background(), "APP", "ORDERS", "AMOUNT")
	require.NoError(t, err)
	assert.False(t, sum.Valid)
	assert.False(t, avg.Valid)
}

func TestOpenRowCursor(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "ID", "NAME" FROM "APP"."ORDERS" ORDER BY "ID" ASC NULLS FIRST`).
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME"}).
			AddRow(nil, []byte("first")).
			AddRow(1, "A").
			AddRow(2, "B"))

	cur, err := adapter.OpenRowCursor(context.Background(), "APP", "ORDERS",
		[]string{"ID", "NAME"}, []string{"ID"}, 2)
	require.NoError(t, err)
	defer cur.Close()

	ctx := context.Background()

	row, err := cur.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, row[0])
	// Byte slices are normalized to strings.
	assert.Equal(t, "first", row[1])

	row, err = cur.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row[0])

	row, err = cur.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), row[0])

	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	// Exhausted cursors stay exhausted.
	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRowCursorCancellationBetweenChunks(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "ID" FROM "APP"."ORDERS" ORDER BY "ID" ASC NULLS FIRST`).
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).
			AddRow(1).AddRow(2).AddRow(3))

	cur, err := adapter.OpenRowCursor(context.Background(), "APP", "ORDERS",
		[]string{"ID"}, []string{"ID"}, 2)
	require.NoError(t, err)
	defer cur.Close()

	ctx, cancel := context.WithCancel(context.Background())

	// The first chunk is already buffered and still drains after cancel.
	_, err = cur.Next(ctx)
	require.NoError(t, err)
	cancel()
	_, err = cur.Next(ctx)
	require.NoError(t, err)

	// The next refill observes the cancellation.
	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeValue(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	assert.Nil(t, catalog.NormalizeValue(nil))
	assert.Equal(t, "abc", catalog.NormalizeValue([]byte("abc")))
	assert.Equal(t, int64(7), catalog.NormalizeValue(int32(7)))
	assert.Equal(t, int64(7), catalog.NormalizeValue(uint16(7)))
	assert.Equal(t, int64(7), catalog.NormalizeValue(uint64(7)))
	// Above MaxInt64 the exact value survives as a decimal string.
	assert.Equal(t, "18446744073709551615", catalog.NormalizeValue(uint64(math.MaxUint64)))
	assert.Equal(t, float64(2.5), catalog.NormalizeValue(float32(2.5)))
	assert.Equal(t, stamp.UTC(), catalog.NormalizeValue(stamp))
	assert.Equal(t, "kept", catalog.NormalizeValue("kept"))
}
