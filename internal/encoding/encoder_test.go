package encoding_test

import (
	"bytes"

	"github.com/tabulario/csvio/internal/encoding"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encodeAll(scalars []rune, enc encoding.Encoding, strategy encoding.BOMStrategy) ([]byte, error) {
	var buf bytes.Buffer
	e, err := encoding.NewEncoder(&buf, enc, strategy)
	if err != nil {
		return nil, err
	}
	for _, s := range scalars {
		if err := e.WriteScalar(s); err != nil {
			return nil, err
		}
	}
	if err := e.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ = Describe("encoding/encoder tests", func() {
	Describe("WriteScalar", func() {
		It("encodes ASCII bytes", func() {
			out, err := encodeAll([]rune("abc"), encoding.ASCII, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("abc")))
		})
		It("rejects a scalar ASCII cannot carry", func() {
			_, err := encodeAll([]rune{0xE9}, encoding.ASCII, encoding.BOMNever)
			Expect(err).To(Equal(encoding.ErrNotEncodable))
		})
		It("encodes UTF-8 sequences of every length", func() {
			out, err := encodeAll([]rune{'a', 0xE9, 0x4E16, 0x1F642}, encoding.UTF8, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("aé世\U0001F642")))
		})
		It("encodes UTF-16BE surrogate pairs", func() {
			out, err := encodeAll([]rune{0x1F642}, encoding.UTF16BE, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0xD8, 0x3D, 0xDE, 0x42}))
		})
		It("encodes UTF-16LE units", func() {
			out, err := encodeAll([]rune{'a', 0x4E16}, encoding.UTF16LE, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0x61, 0x00, 0x16, 0x4E}))
		})
		It("encodes UTF-32 quads in both byte orders", func() {
			out, err := encodeAll([]rune{0x1F642}, encoding.UTF32BE, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0x00, 0x01, 0xF6, 0x42}))

			out, err = encodeAll([]rune{0x1F642}, encoding.UTF32LE, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0x42, 0xF6, 0x01, 0x00}))
		})
		It("rejects surrogate scalars outright", func() {
			_, err := encodeAll([]rune{0xD800}, encoding.UTF8, encoding.BOMNever)
			Expect(err).To(Equal(encoding.ErrNotEncodable))
		})
		It("rejects an undecodable target encoding", func() {
			var buf bytes.Buffer
			_, err := encoding.NewEncoder(&buf, encoding.Unknown, encoding.BOMNever)
			Expect(err).To(Equal(encoding.ErrUnsupported))
		})
	})

	Describe("Byte Order Marks", func() {
		It("emits no mark by convention for UTF-8", func() {
			out, err := encodeAll([]rune{'a'}, encoding.UTF8, encoding.BOMConvention)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{'a'}))
		})
		It("emits a mark by convention for generic UTF-16", func() {
			out, err := encodeAll([]rune{'a'}, encoding.UTF16, encoding.BOMConvention)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0xFE, 0xFF, 0x00, 0x61}))
		})
		It("emits no mark by convention for endian-specific UTF-16", func() {
			out, err := encodeAll([]rune{'a'}, encoding.UTF16LE, encoding.BOMConvention)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0x61, 0x00}))
		})
		It("emits the mark when always requested", func() {
			out, err := encodeAll([]rune{'a'}, encoding.UTF8, encoding.BOMAlways)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0xEF, 0xBB, 0xBF, 'a'}))
		})
		It("suppresses the mark when never requested", func() {
			out, err := encodeAll([]rune{'a'}, encoding.UTF16, encoding.BOMNever)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0x00, 0x61}))
		})
		It("flushes the mark for an empty stream", func() {
			out, err := encodeAll(nil, encoding.UTF32LE, encoding.BOMAlways)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0xFF, 0xFE, 0x00, 0x00}))
		})
	})
})

var _ = Describe("encoding tests", func() {
	Describe("Parse", func() {
		It("maps names to encodings", func() {
			enc, err := encoding.Parse("utf-16le")
			Expect(err).ToNot(HaveOccurred())
			Expect(enc).To(Equal(encoding.UTF16LE))
		})
		It("rejects unknown names", func() {
			_, err := encoding.Parse("latin-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Compatible", func() {
		It("accepts a generic declaration against either endianness", func() {
			Expect(encoding.Compatible(encoding.UTF16, encoding.UTF16LE)).To(BeTrue())
			Expect(encoding.Compatible(encoding.UTF32, encoding.UTF32BE)).To(BeTrue())
		})
		It("rejects cross-width combinations", func() {
			Expect(encoding.Compatible(encoding.UTF16, encoding.UTF32LE)).To(BeFalse())
			Expect(encoding.Compatible(encoding.UTF8, encoding.UTF16LE)).To(BeFalse())
		})
	})
})
