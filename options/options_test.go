package options_test

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/tabulario/csvio/convert"
	"github.com/tabulario/csvio/csv"
	"github.com/tabulario/csvio/options"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("options tests", func() {
	var flags *pflag.FlagSet
	BeforeEach(func() {
		flags = pflag.NewFlagSet("csvio", pflag.ContinueOnError)
		convert.SetFlagDefaults(flags)
	})

	setFlags := func(pairs ...string) {
		for i := 0; i < len(pairs); i += 2 {
			Expect(flags.Set(pairs[i], pairs[i+1])).To(Succeed())
		}
	}

	Describe("NewOptions", func() {
		It("defaults both dialects to comma, newline and double quotes", func() {
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(Equal([]rune{','}))
			Expect(o.ReadSettings.RowDelimiter).To(Equal([]rune{'\n'}))
			Expect(o.ReadSettings.Escaping).To(Equal('"'))
			Expect(o.WriteSettings.FieldDelimiter).To(Equal([]rune{','}))
			Expect(o.InputCompression).To(Equal("none"))
		})
		It("parses delimiter escapes", func() {
			setFlags(options.FIELD_DELIMITER, `\t`)
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(Equal([]rune{'\t'}))
		})
		It("inherits the source dialect for the destination", func() {
			setFlags(options.FIELD_DELIMITER, ";")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.WriteSettings.FieldDelimiter).To(Equal([]rune{';'}))
		})
		It("lets destination flags override the inherited dialect", func() {
			setFlags(options.FIELD_DELIMITER, ";", options.DEST_FIELD_DELIMITER, "|")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(Equal([]rune{';'}))
			Expect(o.WriteSettings.FieldDelimiter).To(Equal([]rune{'|'}))
		})
		It("clears the field delimiter when detection is requested", func() {
			setFlags(options.DETECT_DELIMITER, "true")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(BeEmpty())
			Expect(o.WriteSettings.FieldDelimiter).To(Equal([]rune{','}))
		})
		It("disables escaping with no-quotes", func() {
			setFlags(options.NO_QUOTES, "true")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.Escaping).To(Equal(csv.NoEscaping))
		})
		It("accepts a custom quote character", func() {
			setFlags(options.QUOTE, "'")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.Escaping).To(Equal('\''))
		})
		It("rejects a multi-character quote", func() {
			setFlags(options.QUOTE, "''")
			_, err := options.NewOptions(flags)
			Expect(err).To(HaveOccurred())
		})
		It("maps the header flag to the header strategy", func() {
			setFlags(options.HEADER, "true")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.Header).To(Equal(csv.FirstLineHeader))
		})
		It("parses trim characters and the comment character", func() {
			setFlags(options.TRIM_CHARS, " \t", options.COMMENT, "#")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.TrimSet).To(Equal([]rune{' ', '\t'}))
			Expect(o.ReadSettings.Comment).To(Equal('#'))
		})
		It("parses source and destination encodings independently", func() {
			setFlags(options.ENCODING, "utf-16le", options.DEST_ENCODING, "utf-8")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.Encoding).To(Equal(csv.EncodingUTF16LE))
			Expect(o.WriteSettings.Encoding).To(Equal(csv.EncodingUTF8))
		})
		It("rejects an unknown encoding name", func() {
			setFlags(options.ENCODING, "latin-1")
			_, err := options.NewOptions(flags)
			Expect(err).To(HaveOccurred())
		})
		It("maps the bom flag onto the writer strategy", func() {
			setFlags(options.BOM, "always")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.WriteSettings.BOM).To(Equal(csv.BOMAlways))
		})
		It("rejects an unknown bom policy", func() {
			setFlags(options.BOM, "sometimes")
			_, err := options.NewOptions(flags)
			Expect(err).To(HaveOccurred())
		})
		It("rejects an unknown compression type", func() {
			setFlags(options.COMPRESSION, "lz77")
			_, err := options.NewOptions(flags)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ParseDelimiterLiteral", func() {
		It("passes plain characters through", func() {
			delim, err := options.ParseDelimiterLiteral("||")
			Expect(err).ToNot(HaveOccurred())
			Expect(delim).To(Equal([]rune{'|', '|'}))
		})
		It("decodes backslash escapes", func() {
			delim, err := options.ParseDelimiterLiteral(`\r\n`)
			Expect(err).ToNot(HaveOccurred())
			Expect(delim).To(Equal([]rune{'\r', '\n'}))
		})
		It("unwraps the E'...' form", func() {
			delim, err := options.ParseDelimiterLiteral(`E'\t'`)
			Expect(err).ToNot(HaveOccurred())
			Expect(delim).To(Equal([]rune{'\t'}))
		})
		It("rejects a trailing backslash", func() {
			_, err := options.ParseDelimiterLiteral(`a\`)
			Expect(err).To(HaveOccurred())
		})
		It("rejects an unknown escape", func() {
			_, err := options.ParseDelimiterLiteral(`\q`)
			Expect(err).To(HaveOccurred())
		})
		It("rejects an empty literal", func() {
			_, err := options.ParseDelimiterLiteral("")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("dialect files", func() {
		writeDialect := func(contents string) string {
			path := filepath.Join(GinkgoT().TempDir(), "dialect.yaml")
			Expect(os.WriteFile(path, []byte(contents), 0644)).To(Succeed())
			return path
		}

		It("applies a dialect file to the source settings", func() {
			path := writeDialect(`format: "1.1.0"
field_delimiter: ";"
quote: "'"
header: true
trim_chars: " "
comment: "#"
encoding: utf-16
`)
			setFlags(options.DIALECT_FILE, path)
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(Equal([]rune{';'}))
			Expect(o.ReadSettings.Escaping).To(Equal('\''))
			Expect(o.ReadSettings.Header).To(Equal(csv.FirstLineHeader))
			Expect(o.ReadSettings.TrimSet).To(Equal([]rune{' '}))
			Expect(o.ReadSettings.Comment).To(Equal('#'))
			Expect(o.ReadSettings.Encoding).To(Equal(csv.EncodingUTF16))
		})
		It("lets explicit flags override the dialect file", func() {
			path := writeDialect(`format: "1.0.0"
field_delimiter: ";"
`)
			setFlags(options.DIALECT_FILE, path, options.FIELD_DELIMITER, "|")
			o, err := options.NewOptions(flags)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.ReadSettings.FieldDelimiter).To(Equal([]rune{'|'}))
		})
		It("rejects a missing format version", func() {
			path := writeDialect(`field_delimiter: ";"`)
			_, err := options.LoadDialectFile(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("format version"))
		})
		It("rejects a format below the supported minimum", func() {
			path := writeDialect(`format: "0.9.0"`)
			_, err := options.LoadDialectFile(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no longer supported"))
		})
		It("rejects a format from a newer major version", func() {
			path := writeDialect(`format: "2.0.0"`)
			_, err := options.LoadDialectFile(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not compatible"))
		})
		It("rejects unknown keys", func() {
			path := writeDialect(`format: "1.0.0"
separator: ";"
`)
			_, err := options.LoadDialectFile(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
