package audit

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Comparator imposes one column's total order over normalized cell values.
// The merge-diff walks both cursors under the database's ORDER BY, so the
// comparator for a column must reproduce that order exactly and must be
// applied identically on both sides. NULL sorts before every non-null
// value in every column order, matching the cursors' NULLS FIRST fetch.
type Comparator func(a, b any) int

// NumericCompare orders values of a declared-numeric column by exact
// decimal value. int64, float64 and driver-returned numeric strings all
// compare with full precision, so NUMBER values past float64's integer
// range still order and differ correctly.
func NumericCompare(a, b any) int {
	if c, decided := compareNulls(a, b); decided {
		return c
	}
	ra, aok := asRat(a)
	rb, bok := asRat(b)
	if aok && bok {
		return ra.Cmp(rb)
	}
	return strings.Compare(RenderValue(a), RenderValue(b))
}

// ByteCompare orders values of a non-numeric column byte-wise over their
// rendered form, the order a database delivers string keys in. Times
// compare by instant and bools sort false before true.
func ByteCompare(a, b any) int {
	if c, decided := compareNulls(a, b); decided {
		return c
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(RenderValue(a), RenderValue(b))
}

// CompareKeys is the lexicographic extension of the per-column
// comparators over two key tuples of equal length.
func CompareKeys(cmps []Comparator, a, b []any) int {
	for i := range a {
		if c := cmps[i](a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareNulls(a, b any) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil:
		return -1, true
	case b == nil:
		return 1, true
	default:
		return 0, false
	}
}

// asRat converts a normalized cell value to an exact rational. float64 is
// exact by construction; strings parse as arbitrary-precision decimals.
func asRat(v any) (*big.Rat, bool) {
	switch val := v.(type) {
	case int64:
		return new(big.Rat).SetInt64(val), true
	case float64:
		r := new(big.Rat).SetFloat64(val)
		return r, r != nil
	case string:
		return new(big.Rat).SetString(strings.TrimSpace(val))
	default:
		return nil, false
	}
}

// RenderValue formats a cell value for keys, report fields and byte-wise
// comparison. NULL renders as the empty string.
func RenderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// RenderKey formats a key tuple as "(v1, v2, ...)" for report rows.
func RenderKey(key []any) string {
	parts := make([]string, len(key))
	for i, v := range key {
		if v == nil {
			parts[i] = "NULL"
		} else {
			parts[i] = RenderValue(v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
