package options

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/tabulario/csvio/csv"
	"github.com/tabulario/csvio/internal/encoding"
)

const (
	INPUT                  = "input"
	OUTPUT                 = "output"
	FIELD_DELIMITER        = "field-delimiter"
	ROW_DELIMITER          = "row-delimiter"
	QUOTE                  = "quote"
	NO_QUOTES              = "no-quotes"
	FORCE_QUOTES           = "force-quotes"
	HEADER                 = "header"
	TRIM_CHARS             = "trim-chars"
	COMMENT                = "comment"
	ENCODING               = "encoding"
	BOM                    = "bom"
	DETECT_DELIMITER       = "detect-delimiter"
	IGNORE_EXTRA_DELIMITER = "ignore-extra-delimiter"
	PRESAMPLE              = "presample"
	DEST_FIELD_DELIMITER   = "dest-field-delimiter"
	DEST_ROW_DELIMITER     = "dest-row-delimiter"
	DEST_ENCODING          = "dest-encoding"
	COMPRESSION            = "compression"
	DEST_COMPRESSION       = "dest-compression"
	DIALECT_FILE           = "dialect-file"
	QUIET                  = "quiet"
	DEBUG                  = "debug"
	VERBOSE                = "verbose"
)

const (
	CompressionNone   = "none"
	CompressionGzip   = "gzip"
	CompressionSnappy = "snappy"
	CompressionZstd   = "zstd"
)

// Options is the validated form of the command-line flags: the source and
// destination dialects plus the stream-level knobs around them.
type Options struct {
	InputPath  string
	OutputPath string

	ReadSettings  csv.Settings
	WriteSettings csv.Settings

	InputCompression  string
	OutputCompression string
}

// NewOptions builds Options from parsed flags, loading the dialect file
// first so explicit flags override it.
func NewOptions(flags *pflag.FlagSet) (*Options, error) {
	o := &Options{
		ReadSettings:  csv.DefaultSettings(),
		WriteSettings: csv.DefaultSettings(),
	}

	dialectFile, err := flags.GetString(DIALECT_FILE)
	if err != nil {
		return nil, err
	}
	if dialectFile != "" {
		dialect, err := LoadDialectFile(dialectFile)
		if err != nil {
			return nil, err
		}
		if err := dialect.Apply(&o.ReadSettings); err != nil {
			return nil, err
		}
	}

	o.InputPath, _ = flags.GetString(INPUT)
	o.OutputPath, _ = flags.GetString(OUTPUT)

	if err := o.applyReadFlags(flags); err != nil {
		return nil, err
	}
	if err := o.applyWriteFlags(flags); err != nil {
		return nil, err
	}

	o.InputCompression, _ = flags.GetString(COMPRESSION)
	o.OutputCompression, _ = flags.GetString(DEST_COMPRESSION)
	for _, c := range []string{o.InputCompression, o.OutputCompression} {
		if !ValidCompression(c) {
			return nil, errors.Errorf("unknown compression type '%s'", c)
		}
	}
	return o, nil
}

func (o *Options) applyReadFlags(flags *pflag.FlagSet) error {
	s := &o.ReadSettings

	if flags.Changed(FIELD_DELIMITER) {
		lit, _ := flags.GetString(FIELD_DELIMITER)
		delim, err := ParseDelimiterLiteral(lit)
		if err != nil {
			return err
		}
		s.FieldDelimiter = delim
	}
	if detect, _ := flags.GetBool(DETECT_DELIMITER); detect {
		s.FieldDelimiter = nil
	}
	if flags.Changed(ROW_DELIMITER) {
		lit, _ := flags.GetString(ROW_DELIMITER)
		delim, err := ParseDelimiterLiteral(lit)
		if err != nil {
			return err
		}
		s.RowDelimiter = delim
		s.RowDelimiterSet = nil
	}
	if err := applyQuoteFlags(flags, s); err != nil {
		return err
	}
	if header, _ := flags.GetBool(HEADER); header {
		s.Header = csv.FirstLineHeader
	}
	if flags.Changed(TRIM_CHARS) {
		chars, _ := flags.GetString(TRIM_CHARS)
		s.TrimSet = []rune(chars)
	}
	if flags.Changed(COMMENT) {
		lit, _ := flags.GetString(COMMENT)
		scalars := []rune(lit)
		if len(scalars) != 1 {
			return errors.Errorf("--%s must be a single character", COMMENT)
		}
		s.Comment = scalars[0]
	}
	if flags.Changed(ENCODING) {
		name, _ := flags.GetString(ENCODING)
		enc, err := encoding.Parse(name)
		if err != nil {
			return err
		}
		s.Encoding = enc
	}
	s.Presample, _ = flags.GetBool(PRESAMPLE)
	s.IgnoreExtraDelimiter, _ = flags.GetBool(IGNORE_EXTRA_DELIMITER)
	return nil
}

func (o *Options) applyWriteFlags(flags *pflag.FlagSet) error {
	s := &o.WriteSettings

	// The destination dialect inherits the source dialect unless
	// overridden.
	s.FieldDelimiter = o.ReadSettings.FieldDelimiter
	if len(s.FieldDelimiter) == 0 {
		s.FieldDelimiter = []rune{','}
	}
	s.RowDelimiter = o.ReadSettings.RowDelimiter
	s.Escaping = o.ReadSettings.Escaping

	if flags.Changed(DEST_FIELD_DELIMITER) {
		lit, _ := flags.GetString(DEST_FIELD_DELIMITER)
		delim, err := ParseDelimiterLiteral(lit)
		if err != nil {
			return err
		}
		s.FieldDelimiter = delim
	}
	if flags.Changed(DEST_ROW_DELIMITER) {
		lit, _ := flags.GetString(DEST_ROW_DELIMITER)
		delim, err := ParseDelimiterLiteral(lit)
		if err != nil {
			return err
		}
		s.RowDelimiter = delim
	}
	s.RowDelimiterSet = nil
	if flags.Changed(DEST_ENCODING) {
		name, _ := flags.GetString(DEST_ENCODING)
		enc, err := encoding.Parse(name)
		if err != nil {
			return err
		}
		s.Encoding = enc
	}
	s.ForceEscaping, _ = flags.GetBool(FORCE_QUOTES)

	switch bom, _ := flags.GetString(BOM); bom {
	case "convention", "":
		s.BOM = csv.BOMConvention
	case "always":
		s.BOM = csv.BOMAlways
	case "never":
		s.BOM = csv.BOMNever
	default:
		return errors.Errorf("--%s must be convention, always or never", BOM)
	}
	return nil
}

func applyQuoteFlags(flags *pflag.FlagSet, s *csv.Settings) error {
	if noQuotes, _ := flags.GetBool(NO_QUOTES); noQuotes {
		s.Escaping = csv.NoEscaping
		return nil
	}
	if flags.Changed(QUOTE) {
		lit, _ := flags.GetString(QUOTE)
		scalars := []rune(lit)
		if len(scalars) != 1 {
			return errors.Errorf("--%s must be a single character", QUOTE)
		}
		s.Escaping = scalars[0]
	}
	return nil
}

// ParseEncodingName maps a user-supplied encoding name to the codec's
// Encoding value.
func ParseEncodingName(name string) (csv.Encoding, error) {
	return encoding.Parse(name)
}

// ValidCompression reports whether name is a supported compression type.
func ValidCompression(name string) bool {
	switch name {
	case "", CompressionNone, CompressionGzip, CompressionSnappy, CompressionZstd:
		return true
	}
	return false
}

// ParseDelimiterLiteral turns a flag value into delimiter scalars. Both the
// PostgreSQL-style E'\n' form and plain backslash escapes are accepted.
func ParseDelimiterLiteral(lit string) ([]rune, error) {
	if strings.HasPrefix(lit, "E'") && strings.HasSuffix(lit, "'") && len(lit) > 3 {
		lit = lit[2 : len(lit)-1]
	}
	var out []rune
	scalars := []rune(lit)
	for i := 0; i < len(scalars); i++ {
		if scalars[i] != '\\' {
			out = append(out, scalars[i])
			continue
		}
		i++
		if i >= len(scalars) {
			return nil, errors.Errorf("trailing backslash in delimiter %q", lit)
		}
		switch scalars[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		default:
			return nil, errors.Errorf("unknown escape \\%c in delimiter %q", scalars[i], lit)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("delimiter must not be empty")
	}
	return out, nil
}
