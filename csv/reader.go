package csv

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/tabulario/csvio/internal/encoding"
)

type readerStatus int

const (
	statusActive readerStatus = iota
	statusFinished
	statusFailed
)

// Reader parses a CSV byte stream into rows of field strings, one row per
// call. It owns its decoder and pushback buffer; it is not safe for
// concurrent use. Access is strictly sequential: a consumed row cannot be
// re-read.
type Reader struct {
	settings Settings
	rowSet   [][]rune

	dec *encoding.Decoder
	buf scalarBuffer

	status readerStatus
	err    error // sticky once status is statusFailed
	header []string
	lookup map[string]int

	expect int // fields per row, 0 until established
	row    int // index of the row about to be parsed
	line   int // one-based physical line
	field  []rune
}

// NewReader builds a Reader over src with the given settings. When the
// settings leave the field delimiter empty, a sample of the input is
// buffered and the delimiter detected before parsing starts; when the
// header strategy is FirstLineHeader the header row is parsed immediately.
func NewReader(src io.Reader, settings Settings) (*Reader, error) {
	detecting := len(settings.FieldDelimiter) == 0
	if len(settings.RowDelimiter) == 0 {
		settings.RowDelimiter = []rune{'\n'}
	}
	if err := settings.validate(detecting); err != nil {
		return nil, err
	}

	if detecting || settings.Presample {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, errors.Wrap(err, "presampling input")
		}
		src = bytes.NewReader(data)
	}

	dec, err := encoding.NewDecoder(src, settings.Encoding)
	if err != nil {
		return nil, err
	}

	r := &Reader{settings: settings, dec: dec, line: 1}
	r.rowSet = settings.rowDelimiterSet()

	if detecting {
		if err := r.detectFieldDelimiter(src); err != nil {
			return nil, err
		}
	}

	if settings.Header == FirstLineHeader {
		header, err := r.parseRow()
		for err == nil && header == nil { // leading comment lines
			header, err = r.parseRow()
		}
		if err == io.EOF || (err == nil && emptyRow(header)) {
			return nil, ErrEmptyHeader
		}
		if err != nil {
			return nil, err
		}
		r.header = header
		r.expect = len(header)
	}
	return r, nil
}

// detectFieldDelimiter decodes the buffered sample, runs the dialect
// detector over it and rewinds the decoder to the start of the stream.
// src is the in-memory reader created by presampling.
func (r *Reader) detectFieldDelimiter(src io.Reader) error {
	var sample []rune
	for {
		s, err := r.dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		sample = append(sample, s)
		if len(sample) >= detectorSampleLimit {
			break
		}
	}

	delim, err := NewDetector(nil).Detect(sample)
	if err != nil {
		return err
	}
	r.settings.FieldDelimiter = []rune{delim}
	if err := r.settings.validate(false); err != nil {
		return err
	}

	// Rewind and decode again from the top.
	seeker, ok := src.(io.Seeker)
	if !ok {
		return errors.New("csv: delimiter detection requires a seekable sample")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewinding sample")
	}
	dec, err := encoding.NewDecoder(src, r.settings.Encoding)
	if err != nil {
		return err
	}
	r.dec = dec
	r.buf.reset()
	return nil
}

// Header returns the header row, or nil when none was configured.
func (r *Reader) Header() []string { return r.header }

// FieldDelimiter returns the delimiter in use, which is only known after
// construction when detection was requested.
func (r *Reader) FieldDelimiter() []rune { return r.settings.FieldDelimiter }

// ReadRow returns the next row of fields. It returns io.EOF at a clean end
// of input. Any other error is sticky: every later call returns it again
// without touching the stream.
func (r *Reader) ReadRow() ([]string, error) {
	switch r.status {
	case statusFinished:
		return nil, io.EOF
	case statusFailed:
		return nil, r.err
	}

	for {
		row, err := r.parseRow()
		if err == io.EOF {
			r.status = statusFinished
			return nil, io.EOF
		}
		if err != nil {
			return nil, r.fail(err)
		}
		if row == nil { // line comment
			continue
		}

		if r.expect == 0 {
			r.expect = len(row)
		} else if len(row) != r.expect {
			if r.settings.IgnoreExtraDelimiter && len(row) == r.expect+1 && row[len(row)-1] == "" {
				row = row[:r.expect]
			} else {
				return nil, r.fail(&FieldCountError{Row: r.row - 1, Parsed: len(row), Expected: r.expect})
			}
		}
		return row, nil
	}
}

// ReadRecord returns the next row wrapped with the header-name lookup.
// Requesting it builds the lookup, surfacing duplicate header names.
func (r *Reader) ReadRecord() (*Record, error) {
	lookup, err := r.headerLookup()
	if err != nil {
		return nil, err
	}
	row, err := r.ReadRow()
	if err != nil {
		return nil, err
	}
	return &Record{Row: row, lookup: lookup}, nil
}

func (r *Reader) headerLookup() (map[string]int, error) {
	if r.lookup != nil {
		return r.lookup, nil
	}
	if r.header == nil {
		return nil, ErrNoHeader
	}
	lookup := make(map[string]int, len(r.header))
	for i, name := range r.header {
		if _, dup := lookup[name]; dup {
			return nil, errors.Wrap(ErrDuplicateHeader, name)
		}
		lookup[name] = i
	}
	r.lookup = lookup
	return lookup, nil
}

func (r *Reader) fail(err error) error {
	r.status = statusFailed
	r.err = err
	return err
}

// pull returns the next scalar, pushback buffer first. Line accounting is
// done at row boundaries instead of here: pushed-back scalars replay through
// this path and would otherwise be counted twice.
func (r *Reader) pull() (rune, bool, error) {
	if s, ok := r.buf.next(); ok {
		return s, true, nil
	}
	s, err := r.dec.Next()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return s, true, nil
}

// endRow advances the row and line counters once a physical row has been
// fully consumed. Newlines inside escaped fields are counted where they are
// read.
func (r *Reader) endRow() {
	r.row++
	r.line++
}

func (r *Reader) parseErr(err error) error {
	return &ParseError{Row: r.row, Line: r.line, Err: err}
}

func emptyRow(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && row[0] == "")
}

// parseRow reads scalars until a row delimiter or end of input, producing
// the row's fields. io.EOF is returned only when the input ends before any
// scalar of a new row; a nil row with a nil error is a skipped line comment.
func (r *Reader) parseRow() ([]string, error) {
	var row []string
	escaping := r.settings.Escaping != NoEscaping

	for {
		s, ok, err := r.pull()
		if err != nil {
			return nil, r.parseErr(err)
		}
		if !ok {
			if len(row) == 0 {
				return nil, io.EOF
			}
			// End of input counts as an unterminated empty field.
			row = append(row, "")
			r.endRow()
			return row, nil
		}

		if r.settings.Comment != 0 && len(row) == 0 && s == r.settings.Comment {
			if err := r.skipCommentLine(); err != nil {
				return nil, r.parseErr(err)
			}
			r.endRow()
			return nil, nil
		}

		if containsRune(r.settings.TrimSet, s) {
			continue
		}

		if escaping && s == r.settings.Escaping {
			field, atEnd, err := r.parseEscapedField()
			if err != nil {
				return nil, r.parseErr(err)
			}
			row = append(row, field)
			if atEnd {
				r.endRow()
				return row, nil
			}
			continue
		}

		matched, err := matchDelimiter(s, r.settings.FieldDelimiter, &r.buf, r.pull)
		if err != nil {
			return nil, r.parseErr(err)
		}
		if matched {
			// Empty field between two delimiters.
			row = append(row, "")
			continue
		}

		matched, err = matchAnyDelimiter(s, r.rowSet, &r.buf, r.pull)
		if err != nil {
			return nil, r.parseErr(err)
		}
		if matched {
			// Trailing empty field before the row end.
			row = append(row, "")
			r.endRow()
			return row, nil
		}

		field, atEnd, err := r.parseUnescapedField(s)
		if err != nil {
			return nil, r.parseErr(err)
		}
		row = append(row, field)
		if atEnd {
			r.endRow()
			return row, nil
		}
	}
}

// parseUnescapedField accumulates scalars until a field delimiter, row
// delimiter or end of input. atEnd reports that the row ended with the
// field. An escaping scalar inside the field is an error.
func (r *Reader) parseUnescapedField(first rune) (string, bool, error) {
	r.field = append(r.field[:0], first)
	escaping := r.settings.Escaping != NoEscaping

	for {
		s, ok, err := r.pull()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return r.trimTail(), true, nil
		}
		if escaping && s == r.settings.Escaping {
			return "", false, ErrBareQuote
		}
		matched, err := matchDelimiter(s, r.settings.FieldDelimiter, &r.buf, r.pull)
		if err != nil {
			return "", false, err
		}
		if matched {
			return r.trimTail(), false, nil
		}
		matched, err = matchAnyDelimiter(s, r.rowSet, &r.buf, r.pull)
		if err != nil {
			return "", false, err
		}
		if matched {
			return r.trimTail(), true, nil
		}
		r.field = append(r.field, s)
	}
}

// parseEscapedField accumulates scalars after an opening escaping scalar
// until the matching close. A doubled escaping scalar is a literal one.
// After the close only trim scalars, a delimiter or end of input may follow.
func (r *Reader) parseEscapedField() (string, bool, error) {
	r.field = r.field[:0]
	esc := r.settings.Escaping

	for {
		s, ok, err := r.pull()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, ErrUnterminatedQuote
		}
		if s != esc {
			if s == '\n' {
				r.line++
			}
			r.field = append(r.field, s)
			continue
		}

		// Closing scalar, unless doubled.
		s, ok, err = r.pull()
		if err != nil {
			return "", false, err
		}
		if ok && s == esc {
			r.field = append(r.field, esc)
			continue
		}
		if !ok {
			return r.trimmedField(), true, nil
		}

		// Skip trim scalars between the close and the delimiter.
		for containsRune(r.settings.TrimSet, s) {
			s, ok, err = r.pull()
			if err != nil {
				return "", false, err
			}
			if !ok {
				return r.trimmedField(), true, nil
			}
		}

		matched, err := matchDelimiter(s, r.settings.FieldDelimiter, &r.buf, r.pull)
		if err != nil {
			return "", false, err
		}
		if matched {
			return r.trimmedField(), false, nil
		}
		matched, err = matchAnyDelimiter(s, r.rowSet, &r.buf, r.pull)
		if err != nil {
			return "", false, err
		}
		if matched {
			return r.trimmedField(), true, nil
		}
		return "", false, ErrQuoteEnd
	}
}

// skipCommentLine discards scalars through the next row delimiter.
func (r *Reader) skipCommentLine() error {
	for {
		s, ok, err := r.pull()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		matched, err := matchAnyDelimiter(s, r.rowSet, &r.buf, r.pull)
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
	}
}

// trimTail strips trailing trim-set scalars from the accumulated field by
// scanning backward; leading ones were never accumulated.
func (r *Reader) trimTail() string {
	end := len(r.field)
	for end > 0 && containsRune(r.settings.TrimSet, r.field[end-1]) {
		end--
	}
	return string(r.field[:end])
}

// trimmedField trims both edges of an escaped field's content.
func (r *Reader) trimmedField() string {
	start, end := 0, len(r.field)
	for start < end && containsRune(r.settings.TrimSet, r.field[start]) {
		start++
	}
	for end > start && containsRune(r.settings.TrimSet, r.field[end-1]) {
		end--
	}
	return string(r.field[start:end])
}
