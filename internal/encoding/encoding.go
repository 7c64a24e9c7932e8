// Package encoding converts between raw byte streams and Unicode scalar
// values for the text encodings the CSV codec supports. A Decoder pulls one
// scalar per call from a byte source, an Encoder pushes one scalar per call
// to a byte sink, and both understand Byte Order Marks.
package encoding

import (
	"errors"
)

// Encoding identifies a supported text encoding. The zero value means the
// encoding is not declared and must be inferred from a Byte Order Mark
// (falling back to UTF-8 when no BOM is present).
type Encoding int

const (
	Unknown Encoding = iota
	ASCII
	UTF8
	UTF16 // UTF-16 with endianness taken from a BOM (big-endian by convention)
	UTF16BE
	UTF16LE
	UTF32 // UTF-32 with endianness taken from a BOM (big-endian by convention)
	UTF32BE
	UTF32LE
)

var encodingNames = map[Encoding]string{
	Unknown: "unknown",
	ASCII:   "ascii",
	UTF8:    "utf-8",
	UTF16:   "utf-16",
	UTF16BE: "utf-16be",
	UTF16LE: "utf-16le",
	UTF32:   "utf-32",
	UTF32BE: "utf-32be",
	UTF32LE: "utf-32le",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return "invalid"
}

// Parse maps a user-supplied encoding name to an Encoding.
func Parse(name string) (Encoding, error) {
	for enc, n := range encodingNames {
		if n == name {
			return enc, nil
		}
	}
	return Unknown, errors.New("unsupported encoding " + name)
}

// IsSupported reports whether e names an encoding this package can decode
// and encode. Unknown is not itself decodable; it must first be resolved.
func (e Encoding) IsSupported() bool {
	return e >= ASCII && e <= UTF32LE
}

// Compatible reports whether a declared encoding and a BOM-inferred encoding
// agree. The generic UTF-16/UTF-32 forms are compatible with either of their
// endian-specific forms.
func Compatible(declared, inferred Encoding) bool {
	if declared == inferred {
		return true
	}
	switch declared {
	case UTF16:
		return inferred == UTF16BE || inferred == UTF16LE
	case UTF32:
		return inferred == UTF32BE || inferred == UTF32LE
	case UTF16BE, UTF16LE:
		return inferred == UTF16
	case UTF32BE, UTF32LE:
		return inferred == UTF32
	}
	return false
}

// resolve pins a generic encoding to the endianness actually used on the
// wire. Without a BOM the convention is big-endian.
func (e Encoding) resolve() Encoding {
	switch e {
	case UTF16:
		return UTF16BE
	case UTF32:
		return UTF32BE
	}
	return e
}

// Errors reported while decoding or encoding scalars.
var (
	ErrInvalidASCII    = errors.New("encoding: byte is not valid ASCII")
	ErrInvalidUTF8     = errors.New("encoding: malformed UTF-8 sequence")
	ErrInvalidUTF16    = errors.New("encoding: unpaired UTF-16 surrogate")
	ErrIncompleteUTF16 = errors.New("encoding: incomplete UTF-16 code unit at end of stream")
	ErrIncompleteUTF32 = errors.New("encoding: incomplete UTF-32 code unit at end of stream")
	ErrInvalidUTF32    = errors.New("encoding: invalid UTF-32 code point")
	ErrMismatched      = errors.New("encoding: declared encoding does not match the Byte Order Mark")
	ErrUnsupported     = errors.New("encoding: unsupported encoding")
	ErrEmptyWrite      = errors.New("encoding: sink accepted no bytes after repeated writes")
	ErrNotEncodable    = errors.New("encoding: scalar cannot be represented in the target encoding")
)

const (
	maxScalar        = 0x10FFFF
	surrogateMin     = 0xD800
	surrogateMax     = 0xDFFF
	highSurrogateMax = 0xDBFF
)

func validScalar(r rune) bool {
	if r < 0 || r > maxScalar {
		return false
	}
	return r < surrogateMin || r > surrogateMax
}
