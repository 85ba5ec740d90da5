package core

// errors.go defines the engine's error taxonomy.
//
// The engine never lets an expected-bad input escape as a panic or an
// untyped error: every failure comes back as an *Error carrying one of
// the kinds below, so callers (HTTP handler, CLI) can map it without
// string matching.

import "fmt"

// Kind classifies a filter failure.
type Kind int

const (
	// KindInternal covers I/O errors, permission problems and anything
	// else unexpected. The underlying cause is wrapped.
	KindInternal Kind = iota

	// KindEmptyInput means the input file yielded no records at all,
	// not even a header row.
	KindEmptyInput

	// KindMalformedInput means the file could not be parsed as CSV
	// (bad quoting, inconsistent column counts).
	KindMalformedInput

	// KindMissingColumn means the header has no "name" column.
	KindMissingColumn
)

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindMalformedInput:
		return "malformed_input"
	case KindMissingColumn:
		return "missing_column"
	default:
		return "internal"
	}
}

// Error is the engine's failure value: a kind plus a human-readable
// message, optionally wrapping the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

func errEmptyInput() *Error {
	return &Error{Kind: KindEmptyInput, Message: "the CSV file is empty or contains no data"}
}

func errMalformedInput(cause error) *Error {
	return &Error{Kind: KindMalformedInput, Message: "error parsing CSV file, ensure it is a valid CSV format", Err: cause}
}

func errMissingColumn() *Error {
	return &Error{Kind: KindMissingColumn, Message: fmt.Sprintf("CSV file must contain a column named %q", NameColumn)}
}

func errInternal(op string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: "unexpected error while " + op, Err: cause}
}
