package models

import "fmt"

// EffectiveLimit is the row cap resolved for a single conversion call.
// The zero value is Unbounded.
type EffectiveLimit struct {
	bounded bool
	rows    int
}

// Unbounded returns a limit that keeps every row.
func Unbounded() EffectiveLimit {
	return EffectiveLimit{}
}

// Cap returns a limit that keeps at most n rows. Negative n is treated as 0.
func Cap(n int) EffectiveLimit {
	if n < 0 {
		n = 0
	}
	return EffectiveLimit{bounded: true, rows: n}
}

// IsUnbounded reports whether no cap applies.
func (l EffectiveLimit) IsUnbounded() bool {
	return !l.bounded
}

// Rows returns the cap and whether one applies.
func (l EffectiveLimit) Rows() (int, bool) {
	return l.rows, l.bounded
}

// Apply returns how many of n available rows survive the limit.
func (l EffectiveLimit) Apply(n int) int {
	if !l.bounded || n <= l.rows {
		return n
	}
	return l.rows
}

// String returns "unbounded" or the numeric cap.
func (l EffectiveLimit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", l.rows)
}

// Advisory describes an automatic limiting decision for the caller to relay
// to an end user. It is informational and never fatal.
type Advisory struct {
	EstimatedRows  int
	AppliedCeiling int
}

// String formats the advisory as a user-facing sentence.
func (a Advisory) String() string {
	return fmt.Sprintf(
		"Large dataset detected (%d rows). Showing first %d rows. Use the limit option to customize (0 = unlimited).",
		a.EstimatedRows, a.AppliedCeiling,
	)
}
