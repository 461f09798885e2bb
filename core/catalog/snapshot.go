package catalog

import (
	"context"
	"fmt"
)

// BuildSnapshot reads the full catalog of one schema through the adapter.
// The returned snapshot is never mutated afterward.
func BuildSnapshot(ctx context.Context, adapter Adapter, schema string) (*SchemaSnapshot, error) {
	tables, err := adapter.ListTables(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for schema %s: %w", schema, err)
	}

	snap := &SchemaSnapshot{
		Schema: schema,
		Tables: make(map[string]TableDescriptor, len(tables)),
	}

	for _, table := range tables {
		cols, err := adapter.TableColumns(ctx, schema, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err)
		}
		pk, err := adapter.PrimaryKeyColumns(ctx, schema, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read primary key of %s.%s: %w", schema, table, err)
		}
		indexes, err := adapter.Indexes(ctx, schema, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read indexes of %s.%s: %w", schema, table, err)
		}
		triggers, err := adapter.Triggers(ctx, schema, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read triggers of %s.%s: %w", schema, table, err)
		}
		snap.Tables[table] = TableDescriptor{
			Name:      table,
			Columns:   cols,
			PKColumns: pk,
			Indexes:   indexes,
			Triggers:  triggers,
		}
	}

	if snap.Sequences, err = adapter.Sequences(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to read sequences of schema %s: %w", schema, err)
	}
	if snap.Views, err = adapter.Views(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to read views of schema %s: %w", schema, err)
	}
	return snap, nil
}
