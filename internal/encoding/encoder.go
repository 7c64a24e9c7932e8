package encoding

import (
	"io"
)

const maxConsecutiveEmptyWrites = 100

// BOMStrategy controls whether an Encoder emits a Byte Order Mark before the
// first scalar.
type BOMStrategy int

const (
	// BOMConvention writes a mark only for the generic UTF-16/UTF-32
	// encodings, which are big-endian by convention and otherwise
	// indistinguishable on the wire.
	BOMConvention BOMStrategy = iota
	BOMAlways
	BOMNever
)

// Encoder pushes Unicode scalar values into a byte sink in a target
// encoding. An Encoder is not safe for concurrent use.
type Encoder struct {
	wr      io.Writer
	enc     Encoding // endian-resolved
	bom     []byte   // mark still to emit, nil once written
	scratch [4]byte
}

// NewEncoder returns an Encoder producing enc-encoded bytes. The Byte Order
// Mark, when the strategy calls for one, is emitted before the first scalar.
func NewEncoder(wr io.Writer, enc Encoding, strategy BOMStrategy) (*Encoder, error) {
	if !enc.IsSupported() {
		return nil, ErrUnsupported
	}
	e := &Encoder{wr: wr, enc: enc.resolve()}
	switch strategy {
	case BOMAlways:
		e.bom = bomBytes(e.enc)
	case BOMConvention:
		if enc == UTF16 || enc == UTF32 {
			e.bom = bomBytes(e.enc)
		}
	case BOMNever:
	}
	return e, nil
}

// Flush writes the pending Byte Order Mark, if any. Closing a stream that
// never received a scalar must still produce the mark.
func (e *Encoder) Flush() error {
	if e.bom == nil {
		return nil
	}
	bom := e.bom
	e.bom = nil
	return e.writeFull(bom)
}

// WriteScalar encodes one scalar and writes it to the sink.
func (e *Encoder) WriteScalar(r rune) error {
	if !validScalar(r) {
		return ErrNotEncodable
	}
	if e.bom != nil {
		bom := e.bom
		e.bom = nil
		if err := e.writeFull(bom); err != nil {
			return err
		}
	}
	switch e.enc {
	case ASCII:
		if r >= 0x80 {
			return ErrNotEncodable
		}
		e.scratch[0] = byte(r)
		return e.writeFull(e.scratch[:1])
	case UTF8:
		return e.writeFull(appendUTF8(e.scratch[:0], r))
	case UTF16BE:
		return e.writeFull(appendUTF16(e.scratch[:0], r, true))
	case UTF16LE:
		return e.writeFull(appendUTF16(e.scratch[:0], r, false))
	case UTF32BE:
		e.scratch = [4]byte{byte(r >> 24), byte(r >> 16), byte(r >> 8), byte(r)}
		return e.writeFull(e.scratch[:4])
	case UTF32LE:
		e.scratch = [4]byte{byte(r), byte(r >> 8), byte(r >> 16), byte(r >> 24)}
		return e.writeFull(e.scratch[:4])
	}
	return ErrUnsupported
}

// writeFull pushes p into the sink, retrying a bounded number of times when
// the sink accepts nothing.
func (e *Encoder) writeFull(p []byte) error {
	empty := 0
	for len(p) > 0 {
		n, err := e.wr.Write(p)
		if n < 0 {
			return io.ErrNoProgress
		}
		p = p[n:]
		if err != nil {
			return err
		}
		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyWrites {
				return ErrEmptyWrite
			}
			continue
		}
		empty = 0
	}
	return nil
}

func appendUTF8(dst []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
	case r < 0x10000:
		return append(dst, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
	default:
		return append(dst, 0xF0|byte(r>>18), 0x80|byte(r>>12&0x3F), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
	}
}

func appendUnit16(dst []byte, u uint16, bigEndian bool) []byte {
	if bigEndian {
		return append(dst, byte(u>>8), byte(u))
	}
	return append(dst, byte(u), byte(u>>8))
}

func appendUTF16(dst []byte, r rune, bigEndian bool) []byte {
	if r < 0x10000 {
		return appendUnit16(dst, uint16(r), bigEndian)
	}
	r -= 0x10000
	dst = appendUnit16(dst, uint16(surrogateMin+(r>>10)), bigEndian)
	return appendUnit16(dst, uint16(0xDC00+(r&0x3FF)), bigEndian)
}
