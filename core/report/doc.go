// Package report turns the engine's discrepancy stream into batched CSV
// deliverables.
//
// Each report category (structure, counts, aggregates, nulls, row-level)
// has its own field set and file prefix. The CSVSink partitions a report
// into files of at most batch-size records named {prefix}_batch_{n}.csv;
// every file carries its own header and both a discrepancy and a
// detailed-comparison section, so each batch is independently valid.
//
// Upload optionally archives a finished results directory to object
// storage.
package report
