package audit

// Kind tags one reported unit of difference between the old and the new
// database.
type Kind string

const (
	KindMissingTable            Kind = "Missing Table"
	KindExtraTable              Kind = "Extra Table"
	KindMissingColumn           Kind = "Missing Column"
	KindExtraColumn             Kind = "Extra Column"
	KindTypeMismatch            Kind = "Data Type Mismatch"
	KindMissingIndex            Kind = "Missing Index"
	KindExtraIndex              Kind = "Extra Index"
	KindMissingTrigger          Kind = "Missing Trigger"
	KindExtraTrigger            Kind = "Extra Trigger"
	KindMissingSequence         Kind = "Missing Sequence"
	KindExtraSequence           Kind = "Extra Sequence"
	KindMissingView             Kind = "Missing View"
	KindExtraView               Kind = "Extra View"
	KindRowCountMismatch        Kind = "Row Count Mismatch"
	KindTotalValueMismatch      Kind = "Total Value Count Mismatch"
	KindAggregateMismatch       Kind = "Aggregate Mismatch"
	KindNullCountMismatch       Kind = "Null Count Mismatch"
	KindColumnStructureMismatch Kind = "Column Structure Mismatch"
	KindMissingRowInTarget      Kind = "Missing Row in New"
	KindExtraRowInTarget        Kind = "Extra Row in New"
	KindCellMismatch            Kind = "Cell Value Mismatch"
	KindTableError              Kind = "Table Error"
)

// Discrepancy is one reported difference. Fields not applicable to a kind
// stay empty. Instances are immutable once created and handed to the sink.
type Discrepancy struct {
	Kind     Kind
	Table    string
	Object   string // column, index, trigger, sequence or view name
	Key      string // rendered row key for row-level kinds
	OldValue string
	NewValue string

	// Counts carries the count-validation numbers in the order
	// old rows, new rows, old columns, new columns, old total, new total.
	Counts *CountSet

	// Aggregates carries old/new SUM and AVG for aggregate kinds.
	Aggregates *AggregateSet

	Details string
}

// CountSet holds the six numbers of a count validation.
type CountSet struct {
	OldRows, NewRows     int64
	OldCols, NewCols     int64
	OldTotals, NewTotals int64
}

// AggregateSet holds both sides' SUM and AVG as the drivers returned them.
type AggregateSet struct {
	OldSum, NewSum string
	OldAvg, NewAvg string
}

// Detail is one detailed-comparison record. The engine emits one per table
// (or table+column) in every phase regardless of outcome, so a report is
// auditable even when no discrepancy exists.
type Detail struct {
	Table      string
	Object     string
	OldValue   string
	NewValue   string
	Counts     *CountSet
	Aggregates *AggregateSet

	// Status is "Match"/"OK" or "Discrepancy"/"Mismatch".
	Status string
}

// Sink receives the ordered stream of discrepancies and detail records for
// one report category. The engine guarantees that a table's discrepancies
// are delivered before that table's detail records. Implementations must be
// safe for concurrent use; per-table work runs on a worker pool.
type Sink interface {
	Discrepancy(rec Discrepancy) error
	Detail(rec Detail) error
	Close() error
}
