package csv

import (
	"errors"
	"fmt"
)

// Sentinel errors, matchable with errors.Is.
var (
	// Configuration errors.
	ErrInvalidDelimiter = errors.New("csv: field and row delimiters must be non-empty and distinct")
	ErrInvalidEscaping  = errors.New("csv: escaping scalar conflicts with a delimiter")
	ErrInvalidTrimSet   = errors.New("csv: trim set overlaps a delimiter or the escaping scalar")

	// Parse errors.
	ErrBareQuote         = errors.New("csv: escaping scalar in non-escaped field")
	ErrUnterminatedQuote = errors.New("csv: escaped field not closed before end of input")
	ErrQuoteEnd          = errors.New("csv: unexpected scalar after closing escaping scalar")
	ErrFieldCount        = errors.New("csv: wrong number of fields")
	ErrEmptyHeader       = errors.New("csv: header row is empty")
	ErrDuplicateHeader   = errors.New("csv: duplicate header name")
	ErrNoHeader          = errors.New("csv: no header row was configured")
	ErrUndetectedDialect = errors.New("csv: field delimiter could not be detected")

	// Operation errors.
	ErrReaderFailed    = errors.New("csv: reader is in a failed state")
	ErrWriterClosed    = errors.New("csv: writer has been closed")
	ErrRowWidth        = errors.New("csv: more fields than the established row width")
	ErrUnknownRowWidth = errors.New("csv: row width not yet established")
)

// ParseError locates a parse failure within the input. Row is the zero-based
// row being parsed when the failure occurred (including a header row) and
// Line the one-based physical line, which differs from Row when escaped
// fields span line breaks.
type ParseError struct {
	Row  int
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on row %d (line %d): %v", e.Row, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldCountError reports a row whose field count differs from the width
// established by the first row.
type FieldCountError struct {
	Row      int
	Parsed   int
	Expected int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("row %d has %d fields, expected %d", e.Row, e.Parsed, e.Expected)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCount }
