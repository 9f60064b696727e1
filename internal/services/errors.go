package services

import "fmt"

// The turn pipeline distinguishes four failure variants. None of them is
// ever surfaced to the turn caller: the top-level handler maps each to the
// fallback path (or, for persistence, logs and returns the already-computed
// response).

// ParseError: generation output could not be recovered as a JSON object,
// even after the bracket-substring retry.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generation output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError: a recovered object violates a required enum or shape.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("generation output field %q invalid: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("generation output invalid: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ProviderError: the generation call failed after its internal retries.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generation provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError: a record-store write failed. Logged and rolled back;
// never blocks returning the computed response.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
