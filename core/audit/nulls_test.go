package audit_test

import (
	"context"
	"errors"
	"testing"

	"migration-audit/core/audit"
	"migration-audit/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNullsMatch(t *testing.T) {
	oldDB := newFakeAdapter()
	newDB := newFakeAdapter()
	oldDB.nullCount["ORDERS.NAME"] = 3
	newDB.nullCount["ORDERS.NAME"] = 3

	sink := &memSink{}
	err := audit.ValidateNulls(context.Background(), pairFor(oldDB, newDB),
		ordersTable(), ordersTable(), sink)
	require.NoError(t, err)

	assert.Empty(t, sink.discrepancies)
	require.Len(t, sink.details, 3)
	for _, d := range sink.details {
		assert.Equal(t, "Match", d.Status)
	}
}

func TestValidateNullsMismatch(t *testing.T) {
	oldDB := newFakeAdapter()
	newDB := newFakeAdapter()
	oldDB.nullCount["ORDERS.NAME"] = 3
	newDB.nullCount["ORDERS.NAME"] = 5

	sink := &memSink{}
	err := audit.ValidateNulls(context.Background(), pairFor(oldDB, newDB),
		ordersTable(), ordersTable(), sink)
	require.NoError(t, err)

	require.Len(t, sink.discrepancies, 1)
	d := sink.discrepancies[0]
	assert.Equal(t, audit.KindNullCountMismatch, d.Kind)
	assert.Equal(t, "NAME", d.Object)
	assert.Equal(t, "3", d.OldValue)
	assert.Equal(t, "5", d.NewValue)
}

func TestValidateNullsSkipsColumnsAbsentFromNew(t *testing.T) {
	narrower := catalog.TableDescriptor{
		Name: "ORDERS",
		Columns: []catalog.ColumnDescriptor{
			{Name: "ID", DataType: "NUMBER", Length: 10},
		},
	}

	oldDB := newFakeAdapter()
	newDB := newFakeAdapter()
	oldDB.nullCount["ORDERS.NAME"] = 7

	sink := &memSink{}
	err := audit.ValidateNulls(context.Background(), pairFor(oldDB, newDB),
		ordersTable(), narrower, sink)
	require.NoError(t, err)

	assert.Empty(t, sink.discrepancies)
	require.Len(t, sink.details, 1)
	assert.Equal(t, "ID", sink.details[0].Object)
}

func TestValidateNullsColumnErrorIsScoped(t *testing.T) {
	oldDB := newFakeAdapter()
	newDB := newFakeAdapter()
	oldDB.nullErr["ORDERS.ID"] = errors.New("ORA-00904: invalid identifier")

	sink := &memSink{}
	err := audit.ValidateNulls(context.Background(), pairFor(oldDB, newDB),
		ordersTable(), ordersTable(), sink)
	require.NoError(t, err)

	failures := sink.byKind(audit.KindTableError)
	require.Len(t, failures, 1)
	assert.Equal(t, "ID", failures[0].Object)
	// The remaining columns still produce details.
	assert.Len(t, sink.details, 2)
}
