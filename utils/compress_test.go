package utils_test

import (
	"bytes"
	"io"
	"strings"

	"github.com/tabulario/csvio/utils"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("utils/compress tests", func() {
	Describe("ParseCompressType", func() {
		It("maps names to compression types", func() {
			for name, expected := range map[string]utils.CompressType{
				"":       utils.CompressNone,
				"none":   utils.CompressNone,
				"gzip":   utils.CompressGzip,
				"snappy": utils.CompressSnappy,
				"zstd":   utils.CompressZstd,
			} {
				compressType, err := utils.ParseCompressType(name)
				Expect(err).ToNot(HaveOccurred())
				Expect(compressType).To(Equal(expected))
			}
		})
		It("rejects unknown names", func() {
			_, err := utils.ParseCompressType("lz77")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Extension", func() {
		It("returns the customary suffix per format", func() {
			Expect(utils.CompressNone.Extension()).To(Equal(""))
			Expect(utils.CompressGzip.Extension()).To(Equal(".gz"))
			Expect(utils.CompressSnappy.Extension()).To(Equal(".snappy"))
			Expect(utils.CompressZstd.Extension()).To(Equal(".zst"))
		})
	})

	Describe("WrapWriter and WrapReader", func() {
		payload := strings.Repeat("seq,name,score\n7,\"Bea, C\",55\n", 100)

		for _, compressType := range []utils.CompressType{
			utils.CompressNone,
			utils.CompressGzip,
			utils.CompressSnappy,
			utils.CompressZstd,
		} {
			compressType := compressType
			It("round-trips a payload through "+compressType.Extension()+" compression", func() {
				var buf bytes.Buffer
				wr, err := utils.WrapWriter(&buf, compressType)
				Expect(err).ToNot(HaveOccurred())
				_, err = wr.Write([]byte(payload))
				Expect(err).ToNot(HaveOccurred())
				Expect(wr.Close()).To(Succeed())

				rd, err := utils.WrapReader(&buf, compressType)
				Expect(err).ToNot(HaveOccurred())
				back, err := io.ReadAll(rd)
				Expect(err).ToNot(HaveOccurred())
				Expect(rd.Close()).To(Succeed())
				Expect(string(back)).To(Equal(payload))
			})
		}

		It("shrinks a repetitive payload", func() {
			var buf bytes.Buffer
			wr, err := utils.WrapWriter(&buf, utils.CompressGzip)
			Expect(err).ToNot(HaveOccurred())
			_, err = wr.Write([]byte(payload))
			Expect(err).ToNot(HaveOccurred())
			Expect(wr.Close()).To(Succeed())
			Expect(buf.Len()).To(BeNumerically("<", len(payload)))
		})
	})

	Describe("CountingReader", func() {
		It("reports every byte it passes through", func() {
			counter := &countingBar{}
			rd := utils.NewCountingReader(strings.NewReader("abcdef"), counter)
			back, err := io.ReadAll(rd)
			Expect(err).ToNot(HaveOccurred())
			Expect(back).To(Equal([]byte("abcdef")))
			Expect(counter.total).To(Equal(int64(6)))
		})
	})

	Describe("Exists", func() {
		It("finds values in a slice", func() {
			Expect(utils.Exists([]string{"a", "b"}, "b")).To(BeTrue())
			Expect(utils.Exists([]string{"a", "b"}, "c")).To(BeFalse())
		})
	})

	Describe("HandleSingleDashes", func() {
		It("rewrites single-dash long flags", func() {
			args := utils.HandleSingleDashes([]string{"-input", "in.csv", "-v"})
			Expect(args).To(Equal([]string{"--input", "in.csv", "-v"}))
		})
	})
})

type countingBar struct {
	total int64
}

func (c *countingBar) Start()      {}
func (c *countingBar) Finish()     {}
func (c *countingBar) Add(n int64) { c.total += n }
