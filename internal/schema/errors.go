package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConnectivity marks failures to reach the store at all. Fatal for the
// caller; the schema layer never retries.
var ErrConnectivity = errors.New("store unreachable")

// TableError reports a failed schema operation on a single table,
// carrying the underlying store error. A failed creation aborts the whole
// initialization; there is no silent continuation.
type TableError struct {
	Op    string // "create", "drop", "seed"
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s table %s: %v", e.Op, e.Table, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// SeedConflictError reports a reference-table row that exists with
// contents differing from the expected seed. The row is never mutated or
// deleted; resolving the conflict is a manual operation.
type SeedConflictError struct {
	Table  string
	ID     int64
	Column string
	Want   string
	Got    string
}

func (e *SeedConflictError) Error() string {
	return fmt.Sprintf("seed conflict in %s id=%d: column %s is %q, expected %q",
		e.Table, e.ID, e.Column, e.Got, e.Want)
}

// PartialInitError reports a store holding some but not all expected
// tables. Recoverable: re-running initialization completes the remainder.
type PartialInitError struct {
	Present []string
	Missing []string
}

func (e *PartialInitError) Error() string {
	return fmt.Sprintf("store is partially initialized: %d tables present, missing %s",
		len(e.Present), strings.Join(e.Missing, ", "))
}
