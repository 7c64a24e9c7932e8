package csv

import (
	"github.com/tabulario/csvio/internal/encoding"
)

// Encoding re-exports the supported text encodings so callers configure a
// Reader or Writer without touching the internal decoding machinery.
type Encoding = encoding.Encoding

const (
	EncodingUnknown = encoding.Unknown
	EncodingASCII   = encoding.ASCII
	EncodingUTF8    = encoding.UTF8
	EncodingUTF16   = encoding.UTF16
	EncodingUTF16BE = encoding.UTF16BE
	EncodingUTF16LE = encoding.UTF16LE
	EncodingUTF32   = encoding.UTF32
	EncodingUTF32BE = encoding.UTF32BE
	EncodingUTF32LE = encoding.UTF32LE
)

// BOMStrategy re-exports the writer-side Byte Order Mark policies.
type BOMStrategy = encoding.BOMStrategy

const (
	BOMConvention = encoding.BOMConvention
	BOMAlways     = encoding.BOMAlways
	BOMNever      = encoding.BOMNever
)

// HeaderStrategy states whether the first row of a stream is a header.
type HeaderStrategy int

const (
	NoHeader HeaderStrategy = iota
	FirstLineHeader
)

// NoEscaping disables escaped fields altogether.
const NoEscaping rune = 0

// Settings describes a CSV dialect plus the behavior knobs of the codec.
// The zero value is not usable; start from DefaultSettings.
type Settings struct {
	// FieldDelimiter separates fields within a row. It may be longer than
	// one scalar. Leaving it empty asks the Reader to detect the
	// delimiter from a sample of the input (see DetectDelimiter).
	FieldDelimiter []rune

	// RowDelimiter separates rows. The Writer emits it verbatim; the
	// Reader additionally accepts the candidates in RowDelimiterSet.
	RowDelimiter []rune

	// RowDelimiterSet lists the row delimiters the Reader accepts. When
	// empty it defaults to RowDelimiter plus "\r\n" when RowDelimiter is
	// "\n".
	RowDelimiterSet [][]rune

	// Escaping is the scalar wrapping fields that contain delimiters,
	// doubled to escape itself. NoEscaping turns the mechanism off.
	Escaping rune

	// ForceEscaping makes the Writer wrap every field, needed or not.
	ForceEscaping bool

	// Header controls whether the first row is treated as a header.
	Header HeaderStrategy

	// WriteHeaders, when non-empty, is emitted by the Writer as row 0 and
	// establishes the expected row width.
	WriteHeaders []string

	// TrimSet scalars are stripped from both edges of every parsed field.
	// They must not overlap the delimiters or the escaping scalar.
	TrimSet []rune

	// Comment, when non-zero, marks rows whose first scalar equals it as
	// line comments; the Reader skips them entirely.
	Comment rune

	// Encoding of the byte stream. EncodingUnknown infers it from the
	// Byte Order Mark, defaulting to UTF-8.
	Encoding Encoding

	// BOM is the Writer's Byte Order Mark policy.
	BOM BOMStrategy

	// Presample loads the whole input into memory before parsing starts.
	// Delimiter detection implies it.
	Presample bool

	// IgnoreExtraDelimiter tolerates exactly one extra empty trailing
	// field per row, truncating it. Stray trailing delimiters are a
	// common producer bug.
	IgnoreExtraDelimiter bool
}

// DefaultSettings is the RFC 4180 dialect: comma-separated, newline-ended,
// double-quote escaped, UTF-8.
func DefaultSettings() Settings {
	return Settings{
		FieldDelimiter: []rune{','},
		RowDelimiter:   []rune{'\n'},
		Escaping:       '"',
	}
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsRune(set []rune, r rune) bool {
	for _, s := range set {
		if s == r {
			return true
		}
	}
	return false
}

// rowDelimiterSet resolves the row delimiter candidates for reading.
func (s *Settings) rowDelimiterSet() [][]rune {
	if len(s.RowDelimiterSet) > 0 {
		return s.RowDelimiterSet
	}
	if runesEqual(s.RowDelimiter, []rune{'\n'}) {
		return [][]rune{{'\n'}, {'\r', '\n'}}
	}
	return [][]rune{s.RowDelimiter}
}

// validate checks the invariants shared by Reader and Writer. detecting
// marks the field delimiter as about to be inferred, in which case it may
// legitimately be empty.
func (s *Settings) validate(detecting bool) error {
	if len(s.FieldDelimiter) == 0 && !detecting {
		return ErrInvalidDelimiter
	}
	if len(s.RowDelimiter) == 0 {
		return ErrInvalidDelimiter
	}
	if runesEqual(s.FieldDelimiter, s.RowDelimiter) {
		return ErrInvalidDelimiter
	}
	for _, rd := range s.rowDelimiterSet() {
		if len(rd) == 0 {
			return ErrInvalidDelimiter
		}
		if len(s.FieldDelimiter) > 0 && runesEqual(s.FieldDelimiter, rd) {
			return ErrInvalidDelimiter
		}
	}
	if s.Escaping != NoEscaping {
		if containsRune(s.FieldDelimiter, s.Escaping) {
			return ErrInvalidEscaping
		}
		for _, rd := range s.rowDelimiterSet() {
			if containsRune(rd, s.Escaping) {
				return ErrInvalidEscaping
			}
		}
	}
	for _, t := range s.TrimSet {
		if t == s.Escaping && s.Escaping != NoEscaping {
			return ErrInvalidTrimSet
		}
		if containsRune(s.FieldDelimiter, t) {
			return ErrInvalidTrimSet
		}
		for _, rd := range s.rowDelimiterSet() {
			if containsRune(rd, t) {
				return ErrInvalidTrimSet
			}
		}
	}
	return nil
}
