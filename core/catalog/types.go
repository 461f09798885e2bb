package catalog

import "sort"

// ColumnDescriptor describes a single column as declared in the catalog.
// Instances are immutable once produced by an Adapter.
type ColumnDescriptor struct {
	// Name is the column name, normalized to upper case.
	Name string
	// DataType is the declared data-type tag (e.g. NUMBER, VARCHAR2).
	DataType string
	// Length is the declared length or precision.
	Length int64
}

// TableDescriptor describes one table: its columns in schema order, its
// primary-key columns in declared order, and the names of its indexes
// and triggers.
type TableDescriptor struct {
	Name string

	// Columns in schema (column_id) order.
	Columns []ColumnDescriptor

	// PKColumns holds the primary-key column names in declared order.
	// Empty if the table has no primary key.
	PKColumns []string

	Indexes  map[string]struct{}
	Triggers map[string]struct{}
}

// ColumnNames returns the column names in schema order.
func (t TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the descriptor for the named column.
func (t TableDescriptor) Column(name string) (ColumnDescriptor, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// SchemaSnapshot is a point-in-time read of one schema's catalog.
// It is built once per side per run and must not be mutated afterward.
type SchemaSnapshot struct {
	// Schema is the owner/schema identifier.
	Schema string

	// Tables maps table name to its descriptor.
	Tables map[string]TableDescriptor

	Sequences map[string]struct{}
	Views     map[string]struct{}
}

// TableNames returns the snapshot's table names sorted ascending.
func (s *SchemaSnapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedSet returns the members of a name set sorted ascending.
func SortedSet(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
