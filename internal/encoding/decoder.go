package encoding

import (
	"io"
)

// Decoder pulls Unicode scalar values one at a time from an encoded byte
// stream. The encoding is either declared up front or inferred from the
// stream's Byte Order Mark. A Decoder is not safe for concurrent use.
type Decoder struct {
	src *byteSource
	enc Encoding // always endian-resolved
}

// NewDecoder sniffs the stream prefix for a Byte Order Mark, reconciles it
// with the declared encoding and returns a Decoder positioned on the first
// scalar after the mark. Pass Unknown to infer the encoding (UTF-8 when the
// stream carries no mark).
func NewDecoder(rd io.Reader, declared Encoding) (*Decoder, error) {
	src := newByteSource(rd, defaultReadBufferSize)
	prefix, err := src.peek(MaxBOMLength)
	if err != nil {
		return nil, err
	}
	enc, skip, err := resolveDeclared(declared, prefix)
	if err != nil {
		return nil, err
	}
	if err := src.skip(skip); err != nil && err != io.EOF {
		return nil, err
	}
	return &Decoder{src: src, enc: enc}, nil
}

// Encoding returns the endian-resolved encoding the Decoder settled on.
func (d *Decoder) Encoding() Encoding { return d.enc }

// Next decodes one scalar. It returns io.EOF at a clean end of input; an
// input ending in the middle of a code unit is an error, not EOF.
func (d *Decoder) Next() (rune, error) {
	switch d.enc {
	case ASCII:
		return d.nextASCII()
	case UTF8:
		return d.nextUTF8()
	case UTF16BE:
		return d.nextUTF16(true)
	case UTF16LE:
		return d.nextUTF16(false)
	case UTF32BE:
		return d.nextUTF32(true)
	case UTF32LE:
		return d.nextUTF32(false)
	}
	return 0, ErrUnsupported
}

func (d *Decoder) nextASCII() (rune, error) {
	c, err := d.src.next()
	if err != nil {
		return 0, err
	}
	if c >= 0x80 {
		return 0, ErrInvalidASCII
	}
	return rune(c), nil
}

func (d *Decoder) nextUTF8() (rune, error) {
	c, err := d.src.next()
	if err != nil {
		return 0, err
	}
	if c < 0x80 {
		return rune(c), nil
	}

	var size int
	var r rune
	switch {
	case c&0xE0 == 0xC0:
		size, r = 1, rune(c&0x1F)
	case c&0xF0 == 0xE0:
		size, r = 2, rune(c&0x0F)
	case c&0xF8 == 0xF0:
		size, r = 3, rune(c&0x07)
	default:
		return 0, ErrInvalidUTF8
	}
	for i := 0; i < size; i++ {
		cc, err := d.src.next()
		if err == io.EOF {
			return 0, ErrInvalidUTF8
		}
		if err != nil {
			return 0, err
		}
		if cc&0xC0 != 0x80 {
			return 0, ErrInvalidUTF8
		}
		r = r<<6 | rune(cc&0x3F)
	}
	// Reject overlong forms, surrogates and out-of-range values.
	if r < utf8Min[size] || !validScalar(r) {
		return 0, ErrInvalidUTF8
	}
	return r, nil
}

// utf8Min holds the smallest scalar legally encoded with n continuation
// bytes; anything below it is an overlong form.
var utf8Min = [4]rune{0, 0x80, 0x800, 0x10000}

func (d *Decoder) nextUnit16(bigEndian bool) (uint16, error) {
	hi, err := d.src.next()
	if err != nil {
		return 0, err
	}
	lo, err := d.src.next()
	if err == io.EOF {
		return 0, ErrIncompleteUTF16
	}
	if err != nil {
		return 0, err
	}
	if bigEndian {
		return uint16(hi)<<8 | uint16(lo), nil
	}
	return uint16(lo)<<8 | uint16(hi), nil
}

func (d *Decoder) nextUTF16(bigEndian bool) (rune, error) {
	unit, err := d.nextUnit16(bigEndian)
	if err != nil {
		return 0, err
	}
	if unit < surrogateMin || unit > surrogateMax {
		return rune(unit), nil
	}
	if unit > highSurrogateMax {
		// A low surrogate with no preceding high surrogate.
		return 0, ErrInvalidUTF16
	}
	low, err := d.nextUnit16(bigEndian)
	if err == io.EOF {
		return 0, ErrIncompleteUTF16
	}
	if err != nil {
		return 0, err
	}
	if low <= highSurrogateMax || low > surrogateMax {
		return 0, ErrInvalidUTF16
	}
	return 0x10000 + (rune(unit)-surrogateMin)<<10 + (rune(low) - 0xDC00), nil
}

func (d *Decoder) nextUTF32(bigEndian bool) (rune, error) {
	var quad [4]byte
	for i := range quad {
		c, err := d.src.next()
		if err == io.EOF {
			if i == 0 {
				return 0, io.EOF
			}
			return 0, ErrIncompleteUTF32
		}
		if err != nil {
			return 0, err
		}
		quad[i] = c
	}
	var v uint32
	if bigEndian {
		v = uint32(quad[0])<<24 | uint32(quad[1])<<16 | uint32(quad[2])<<8 | uint32(quad[3])
	} else {
		v = uint32(quad[3])<<24 | uint32(quad[2])<<16 | uint32(quad[1])<<8 | uint32(quad[0])
	}
	r := rune(v)
	if !validScalar(r) {
		return 0, ErrInvalidUTF32
	}
	return r, nil
}
