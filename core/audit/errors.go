package audit

import (
	"context"
	"errors"
	"fmt"
)

// ConnectionError marks a failure that leaves one database side unusable.
// It is fatal to the whole run: no table on that side can be processed.
type ConnectionError struct {
	Side string // "old" or "new"
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s database failed: %v", e.Side, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError marks a failure scoped to one table, one column check or one
// chunk. It is recorded as a Table Error discrepancy and processing
// continues with the next unit of work.
type QueryError struct {
	Phase  string
	Table  string
	Column string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed for %s.%s: %v", e.Phase, e.Table, e.Column, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Phase, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsCancellation reports whether err is the cooperative stop signal rather
// than a real failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
