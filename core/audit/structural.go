package audit

import (
	"fmt"
	"sort"
	"strconv"

	"migration-audit/core/catalog"
)

// CompareStructure compares two schema snapshots structurally: tables,
// columns, indexes, triggers, sequences and views. It is a pure function
// over the snapshots; all emission is sorted lexicographically so the
// output never depends on adapter return order.
func CompareStructure(old, new *catalog.SchemaSnapshot, sink Sink) error {
	oldTables := old.TableNames()
	newTables := new.TableNames()

	for _, t := range diffNames(oldTables, newTables) {
		if err := sink.Discrepancy(Discrepancy{
			Kind:    KindMissingTable,
			Table:   t,
			Details: "Table exists in old DB but not in new DB.",
		}); err != nil {
			return err
		}
	}
	for _, t := range diffNames(newTables, oldTables) {
		if err := sink.Discrepancy(Discrepancy{
			Kind:    KindExtraTable,
			Table:   t,
			Details: "Table exists in new DB but not in old DB.",
		}); err != nil {
			return err
		}
	}

	for _, t := range CommonTables(old, new) {
		if err := compareTableStructure(old.Tables[t], new.Tables[t], sink); err != nil {
			return err
		}
	}

	if err := compareNameSets(sink, "", old.Sequences, new.Sequences,
		KindMissingSequence, KindExtraSequence, "Sequence"); err != nil {
		return err
	}
	return compareNameSets(sink, "", old.Views, new.Views,
		KindMissingView, KindExtraView, "View")
}

// CommonTables returns the sorted intersection of the two snapshots'
// table-name sets.
func CommonTables(old, new *catalog.SchemaSnapshot) []string {
	var common []string
	for _, t := range old.TableNames() {
		if _, ok := new.Tables[t]; ok {
			common = append(common, t)
		}
	}
	return common
}

func compareTableStructure(old, new catalog.TableDescriptor, sink Sink) error {
	oldCols := make(map[string]catalog.ColumnDescriptor, len(old.Columns))
	for _, c := range old.Columns {
		oldCols[c.Name] = c
	}
	newCols := make(map[string]catalog.ColumnDescriptor, len(new.Columns))
	for _, c := range new.Columns {
		newCols[c.Name] = c
	}

	union := make(map[string]struct{}, len(oldCols)+len(newCols))
	for name := range oldCols {
		union[name] = struct{}{}
	}
	for name := range newCols {
		union[name] = struct{}{}
	}

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		oc, inOld := oldCols[name]
		nc, inNew := newCols[name]

		switch {
		case inOld && !inNew:
			if err := sink.Discrepancy(Discrepancy{
				Kind:     KindMissingColumn,
				Table:    old.Name,
				Object:   name,
				OldValue: renderColumnType(oc),
				Details:  fmt.Sprintf("Column '%s' is missing in new DB.", name),
			}); err != nil {
				return err
			}
		case !inOld && inNew:
			if err := sink.Discrepancy(Discrepancy{
				Kind:     KindExtraColumn,
				Table:    old.Name,
				Object:   name,
				NewValue: renderColumnType(nc),
				Details:  fmt.Sprintf("Column '%s' is extra in new DB.", name),
			}); err != nil {
				return err
			}
		case oc.DataType != nc.DataType || oc.Length != nc.Length:
			if err := sink.Discrepancy(Discrepancy{
				Kind:     KindTypeMismatch,
				Table:    old.Name,
				Object:   name,
				OldValue: renderColumnType(oc),
				NewValue: renderColumnType(nc),
				Details:  fmt.Sprintf("Column '%s' type differs.", name),
			}); err != nil {
				return err
			}
		}
	}

	if err := compareNameSets(sink, old.Name, old.Indexes, new.Indexes,
		KindMissingIndex, KindExtraIndex, "Index"); err != nil {
		return err
	}
	if err := compareNameSets(sink, old.Name, old.Triggers, new.Triggers,
		KindMissingTrigger, KindExtraTrigger, "Trigger"); err != nil {
		return err
	}

	// One detail record per column in the union, Match or Discrepancy.
	for _, name := range names {
		oc, inOld := oldCols[name]
		nc, inNew := newCols[name]
		status := "Match"
		if !inOld || !inNew || oc != nc {
			status = "Discrepancy"
		}
		oldVal := "Missing"
		if inOld {
			oldVal = renderColumnType(oc)
		}
		newVal := "Missing"
		if inNew {
			newVal = renderColumnType(nc)
		}
		if err := sink.Detail(Detail{
			Table:    old.Name,
			Object:   name,
			OldValue: oldVal,
			NewValue: newVal,
			Status:   status,
		}); err != nil {
			return err
		}
	}
	return nil
}

// compareNameSets emits missing/extra discrepancies for a pair of name
// sets, sorted ascending.
func compareNameSets(sink Sink, table string, old, new map[string]struct{}, missing, extra Kind, label string) error {
	for _, name := range catalog.SortedSet(old) {
		if _, ok := new[name]; ok {
			continue
		}
		if err := sink.Discrepancy(Discrepancy{
			Kind:    missing,
			Table:   table,
			Object:  name,
			Details: fmt.Sprintf("%s '%s' is missing in new DB.", label, name),
		}); err != nil {
			return err
		}
	}
	for _, name := range catalog.SortedSet(new) {
		if _, ok := old[name]; ok {
			continue
		}
		if err := sink.Discrepancy(Discrepancy{
			Kind:    extra,
			Table:   table,
			Object:  name,
			Details: fmt.Sprintf("%s '%s' is extra in new DB.", label, name),
		}); err != nil {
			return err
		}
	}
	return nil
}

// diffNames returns a−b over two sorted name slices, sorted ascending.
func diffNames(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, name := range b {
		set[name] = struct{}{}
	}
	var out []string
	for _, name := range a {
		if _, ok := set[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func renderColumnType(c catalog.ColumnDescriptor) string {
	return c.DataType + "(" + strconv.FormatInt(c.Length, 10) + ")"
}
