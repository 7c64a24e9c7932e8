package encoding

// MaxBOMLength is the longest Byte Order Mark this package recognizes.
const MaxBOMLength = 4

// boms lists the recognized Byte Order Marks. UTF-32 entries come first:
// the UTF-32LE BOM starts with the UTF-16LE BOM bytes, so longer marks must
// win the match.
var boms = []struct {
	enc   Encoding
	bytes []byte
}{
	{UTF32BE, []byte{0x00, 0x00, 0xFE, 0xFF}},
	{UTF32LE, []byte{0xFF, 0xFE, 0x00, 0x00}},
	{UTF8, []byte{0xEF, 0xBB, 0xBF}},
	{UTF16BE, []byte{0xFE, 0xFF}},
	{UTF16LE, []byte{0xFF, 0xFE}},
}

// bomBytes returns the mark to emit for an endian-resolved encoding, or nil
// when the encoding has no mark.
func bomBytes(e Encoding) []byte {
	for _, bom := range boms {
		if bom.enc == e {
			return bom.bytes
		}
	}
	return nil
}

// SniffBOM inspects up to MaxBOMLength bytes from the start of a stream and
// reports the encoding the Byte Order Mark identifies along with the number
// of prefix bytes the mark occupies. Without a recognizable mark it reports
// Unknown and zero.
func SniffBOM(prefix []byte) (Encoding, int) {
	for _, bom := range boms {
		if len(prefix) < len(bom.bytes) {
			continue
		}
		matched := true
		for i, b := range bom.bytes {
			if prefix[i] != b {
				matched = false
				break
			}
		}
		if matched {
			return bom.enc, len(bom.bytes)
		}
	}
	return Unknown, 0
}

// resolveDeclared combines a declared encoding with a sniffed prefix.
// It returns the endian-resolved encoding to decode with and the number of
// BOM bytes to discard. A declared encoding that contradicts the mark is
// ErrMismatched; generic UTF-16/UTF-32 adopt the endianness of their mark.
func resolveDeclared(declared Encoding, prefix []byte) (Encoding, int, error) {
	inferred, skip := SniffBOM(prefix)
	if declared == Unknown {
		if inferred == Unknown {
			return UTF8, 0, nil
		}
		return inferred.resolve(), skip, nil
	}
	if !declared.IsSupported() {
		return Unknown, 0, ErrUnsupported
	}
	if inferred == Unknown {
		return declared.resolve(), 0, nil
	}
	if !Compatible(declared, inferred) {
		return Unknown, 0, ErrMismatched
	}
	return inferred.resolve(), skip, nil
}
