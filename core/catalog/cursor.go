package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// RowCursor yields the rows of one table in ascending key order.
// Next returns io.EOF once the cursor is exhausted. Implementations must
// never buffer more than one chunk of rows at a time. A cursor belongs to
// exactly one caller; it is not safe for concurrent use.
type RowCursor interface {
	// Next returns the next row. Values are normalized so that the same
	// logical value scans identically on both sides ([]byte becomes
	// string, integers become int64).
	Next(ctx context.Context) ([]any, error)
	Close() error
}

// sqlRowCursor streams a single ordered query, refilling a bounded buffer
// of chunkSize rows as the caller advances. Cancellation is observed at
// chunk boundaries so an in-flight chunk always completes.
type sqlRowCursor struct {
	rows      *sql.Rows
	width     int
	chunkSize int
	buf       [][]any
	pos       int
	done      bool
}

func newSQLRowCursor(rows *sql.Rows, width, chunkSize int) *sqlRowCursor {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &sqlRowCursor{rows: rows, width: width, chunkSize: chunkSize}
}

func (c *sqlRowCursor) Next(ctx context.Context) ([]any, error) {
	if c.pos >= len(c.buf) {
		if c.done {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.refill(); err != nil {
			return nil, err
		}
		if len(c.buf) == 0 {
			return nil, io.EOF
		}
	}
	row := c.buf[c.pos]
	c.pos++
	return row, nil
}

func (c *sqlRowCursor) refill() error {
	c.buf = c.buf[:0]
	c.pos = 0
	for len(c.buf) < c.chunkSize {
		if !c.rows.Next() {
			c.done = true
			if err := c.rows.Err(); err != nil {
				return fmt.Errorf("failed to fetch row chunk: %w", err)
			}
			return nil
		}
		holders := make([]any, c.width)
		values := make([]any, c.width)
		for i := range holders {
			holders[i] = &values[i]
		}
		if err := c.rows.Scan(holders...); err != nil {
			c.done = true
			return fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range values {
			values[i] = NormalizeValue(values[i])
		}
		c.buf = append(c.buf, values)
	}
	return nil
}

func (c *sqlRowCursor) Close() error {
	return c.rows.Close()
}

// NormalizeValue maps driver-specific scan results onto the small set of
// types the comparison order is defined over: nil, int64, float64, string,
// bool and time.Time.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		// int64 would wrap above MaxInt64; the decimal string keeps the
		// exact value and numeric columns compare strings exactly.
		if val > math.MaxInt64 {
			return strconv.FormatUint(val, 10)
		}
		return int64(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.UTC()
	default:
		return val
	}
}
