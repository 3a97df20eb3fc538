package store

import "fmt"

// StoreError reports a backing-structure failure or a phase violation.
// Path is empty for in-memory stores.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SchemaVersionError reports opening a persisted store whose on-disk schema
// version does not match this build.
type SchemaVersionError struct {
	Path     string
	Expected string
	Found    string
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("store %s: schema version mismatch: expected %s, found %s",
		e.Path, e.Expected, e.Found)
}

// phaseError builds the StoreError for an operation attempted in the wrong
// lifecycle phase.
func phaseError(op, path string, state State) *StoreError {
	return &StoreError{Op: op, Path: path,
		Err: fmt.Errorf("store is %s", state)}
}
