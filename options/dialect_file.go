package options

import (
	"os"

	"github.com/blang/semver"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/tabulario/csvio/csv"
)

// Dialect files describe a CSV variant once so it can be shared between
// invocations instead of respelled as flags.
const MINIMUM_DIALECT_FORMAT = "1.0.0"
const CURRENT_DIALECT_FORMAT = "1.1.0"

// DialectFile is the YAML schema of a dialect description.
type DialectFile struct {
	Format         string `yaml:"format"`
	FieldDelimiter string `yaml:"field_delimiter"`
	RowDelimiter   string `yaml:"row_delimiter"`
	Quote          string `yaml:"quote"`
	NoQuotes       bool   `yaml:"no_quotes"`
	Header         bool   `yaml:"header"`
	TrimChars      string `yaml:"trim_chars"`
	Comment        string `yaml:"comment"`
	Encoding       string `yaml:"encoding"`
}

// LoadDialectFile reads and version-checks a dialect file.
func LoadDialectFile(path string) (*DialectFile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dialect file")
	}
	d := &DialectFile{}
	if err := yaml.UnmarshalStrict(contents, d); err != nil {
		return nil, errors.Wrap(err, "parsing dialect file")
	}
	if err := d.checkFormat(); err != nil {
		return nil, err
	}
	return d, nil
}

// checkFormat gates the declared format version: at least the minimum, and
// the same major as the current format.
func (d *DialectFile) checkFormat() error {
	if d.Format == "" {
		return errors.New("dialect file is missing the format version")
	}
	version, err := semver.Parse(d.Format)
	if err != nil {
		return errors.Wrapf(err, "invalid dialect format version %q", d.Format)
	}
	minimum := semver.MustParse(MINIMUM_DIALECT_FORMAT)
	current := semver.MustParse(CURRENT_DIALECT_FORMAT)
	if version.LT(minimum) {
		return errors.Errorf("dialect format %s is no longer supported; the minimum is %s", d.Format, MINIMUM_DIALECT_FORMAT)
	}
	if version.Major != current.Major {
		return errors.Errorf("dialect format %s is not compatible with this release (format %s)", d.Format, CURRENT_DIALECT_FORMAT)
	}
	return nil
}

// Apply copies the dialect onto existing settings, leaving unset fields
// untouched.
func (d *DialectFile) Apply(s *csv.Settings) error {
	if d.FieldDelimiter != "" {
		delim, err := ParseDelimiterLiteral(d.FieldDelimiter)
		if err != nil {
			return err
		}
		s.FieldDelimiter = delim
	}
	if d.RowDelimiter != "" {
		delim, err := ParseDelimiterLiteral(d.RowDelimiter)
		if err != nil {
			return err
		}
		s.RowDelimiter = delim
		s.RowDelimiterSet = nil
	}
	if d.NoQuotes {
		s.Escaping = csv.NoEscaping
	} else if d.Quote != "" {
		scalars := []rune(d.Quote)
		if len(scalars) != 1 {
			return errors.Errorf("dialect quote %q must be a single character", d.Quote)
		}
		s.Escaping = scalars[0]
	}
	if d.Header {
		s.Header = csv.FirstLineHeader
	}
	if d.TrimChars != "" {
		s.TrimSet = []rune(d.TrimChars)
	}
	if d.Comment != "" {
		scalars := []rune(d.Comment)
		if len(scalars) != 1 {
			return errors.Errorf("dialect comment %q must be a single character", d.Comment)
		}
		s.Comment = scalars[0]
	}
	if d.Encoding != "" {
		enc, err := ParseEncodingName(d.Encoding)
		if err != nil {
			return err
		}
		s.Encoding = enc
	}
	return nil
}
