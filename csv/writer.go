package csv

import (
	"io"

	"github.com/tabulario/csvio/internal/encoding"
)

type fileState int

const (
	fileUnbegun fileState = iota
	fileActive
	fileClosed
)

// Writer serializes rows of field strings into a CSV byte stream. Fields
// are escaped on demand; every row must carry the same number of fields as
// the first one written (or as the configured headers). A Writer is not
// safe for concurrent use.
type Writer struct {
	settings Settings
	enc      *encoding.Encoder

	state     fileState
	nextRow   int
	nextField int
	expect    int // fields per row, 0 until established
}

// NewWriter builds a Writer over dst with the given settings. The Byte
// Order Mark and configured headers are emitted lazily, before the first
// field reaches the sink.
func NewWriter(dst io.Writer, settings Settings) (*Writer, error) {
	if len(settings.FieldDelimiter) == 0 {
		settings.FieldDelimiter = []rune{','}
	}
	if len(settings.RowDelimiter) == 0 {
		settings.RowDelimiter = []rune{'\n'}
	}
	if err := settings.validate(false); err != nil {
		return nil, err
	}
	target := settings.Encoding
	if target == EncodingUnknown {
		target = EncodingUTF8
	}
	enc, err := encoding.NewEncoder(dst, target, settings.BOM)
	if err != nil {
		return nil, err
	}
	return &Writer{settings: settings, enc: enc}, nil
}

// begin transitions the file to its active state, emitting the configured
// header row first.
func (w *Writer) begin() error {
	if w.state != fileUnbegun {
		return nil
	}
	w.state = fileActive
	if len(w.settings.WriteHeaders) == 0 {
		return nil
	}
	w.expect = len(w.settings.WriteHeaders)
	for _, name := range w.settings.WriteHeaders {
		if err := w.WriteField(name); err != nil {
			return err
		}
	}
	return w.EndRow()
}

// WriteField appends one field to the current row.
func (w *Writer) WriteField(field string) error {
	if w.state == fileClosed {
		return ErrWriterClosed
	}
	if err := w.begin(); err != nil {
		return err
	}
	if w.expect > 0 && w.nextField >= w.expect {
		return ErrRowWidth
	}
	if w.nextField > 0 {
		if err := w.writeScalars(w.settings.FieldDelimiter); err != nil {
			return err
		}
	}
	w.nextField++
	return w.writeEscaped(field)
}

// WriteRow writes a complete row and ends it. The field count is validated
// against the established row width before anything reaches the sink.
func (w *Writer) WriteRow(row []string) error {
	if w.state == fileClosed {
		return ErrWriterClosed
	}
	if err := w.begin(); err != nil {
		return err
	}
	if w.expect > 0 && w.nextField+len(row) != w.expect {
		return &FieldCountError{Row: w.nextRow, Parsed: w.nextField + len(row), Expected: w.expect}
	}
	for _, field := range row {
		if err := w.WriteField(field); err != nil {
			return err
		}
	}
	return w.EndRow()
}

// EndRow completes the current row, padding it with empty fields up to the
// established width, and emits the row delimiter. Ending a row before any
// width is known and without having written a field is an error.
func (w *Writer) EndRow() error {
	if w.state == fileClosed {
		return ErrWriterClosed
	}
	if err := w.begin(); err != nil {
		return err
	}
	if w.nextField == 0 && w.expect == 0 {
		return ErrUnknownRowWidth
	}
	for w.nextField < w.expect {
		if err := w.WriteField(""); err != nil {
			return err
		}
	}
	if w.expect == 0 {
		w.expect = w.nextField
	}
	if err := w.writeScalars(w.settings.RowDelimiter); err != nil {
		return err
	}
	w.nextRow++
	w.nextField = 0
	return nil
}

// EndFile finalizes the stream. A stream that never saw a row still gets
// its Byte Order Mark and headers. Every write after EndFile fails.
func (w *Writer) EndFile() error {
	if w.state == fileClosed {
		return ErrWriterClosed
	}
	if err := w.begin(); err != nil {
		return err
	}
	if w.nextField > 0 {
		if err := w.EndRow(); err != nil {
			return err
		}
	}
	if err := w.enc.Flush(); err != nil {
		return err
	}
	w.state = fileClosed
	return nil
}

// RowCount returns the number of completed rows, headers included.
func (w *Writer) RowCount() int { return w.nextRow }

func (w *Writer) writeScalars(rs []rune) error {
	for _, r := range rs {
		if err := w.enc.WriteScalar(r); err != nil {
			return err
		}
	}
	return nil
}

// writeEscaped writes one field, wrapping it in escaping scalars when it
// contains a delimiter sequence or the escaping scalar itself, doubling
// embedded escaping scalars.
func (w *Writer) writeEscaped(field string) error {
	scalars := []rune(field)
	esc := w.settings.Escaping

	if esc == NoEscaping || !(w.settings.ForceEscaping || w.needsEscaping(scalars)) {
		return w.writeScalars(scalars)
	}

	if err := w.enc.WriteScalar(esc); err != nil {
		return err
	}
	for _, s := range scalars {
		if err := w.enc.WriteScalar(s); err != nil {
			return err
		}
		if s == esc {
			if err := w.enc.WriteScalar(esc); err != nil {
				return err
			}
		}
	}
	return w.enc.WriteScalar(esc)
}

// needsEscaping scans the field for the escaping scalar or any full
// delimiter sequence. A tail that begins a delimiter must also be quoted:
// written raw it would fuse with the delimiter emitted right after the
// field into a longer delimiter match.
func (w *Writer) needsEscaping(scalars []rune) bool {
	for i, s := range scalars {
		if s == w.settings.Escaping {
			return true
		}
		if fusesWith(scalars[i:], w.settings.FieldDelimiter) {
			return true
		}
		for _, rd := range w.settings.rowDelimiterSet() {
			if fusesWith(scalars[i:], rd) {
				return true
			}
		}
	}
	return false
}

// fusesWith reports whether tail contains delim at its start, or runs out
// while still matching it.
func fusesWith(tail, delim []rune) bool {
	if len(tail) >= len(delim) {
		return hasPrefix(tail, delim)
	}
	return hasPrefix(delim, tail)
}

func hasPrefix(scalars, prefix []rune) bool {
	if len(scalars) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if scalars[i] != p {
			return false
		}
	}
	return true
}
