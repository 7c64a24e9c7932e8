package encoding

import (
	"io"
)

const minReadBufferSize = 16
const defaultReadBufferSize = 4096
const maxConsecutiveEmptyReads = 100

var errNegativeRead = io.ErrNoProgress

// byteSource is a buffered byte reader feeding the Decoder. Bytes consumed
// while sniffing the Byte Order Mark are replayed ahead of the underlying
// stream. A read error is held and surfaced once the buffered bytes run out.
type byteSource struct {
	buf    []byte
	rd     io.Reader
	r, w   int // buf read and write positions
	err    error
	replay []byte // unconsumed BOM-sniff bytes, drained first
}

func newByteSource(rd io.Reader, size int) *byteSource {
	if size < minReadBufferSize {
		size = minReadBufferSize
	}
	return &byteSource{buf: make([]byte, size), rd: rd}
}

// prepend queues bytes to be returned before anything from the stream.
func (b *byteSource) prepend(p []byte) {
	b.replay = append(b.replay, p...)
}

func (b *byteSource) buffered() int { return b.w - b.r }

// fill reads new data into the buffer, trying a limited number of times.
func (b *byteSource) fill() {
	// Slide existing data to beginning.
	if b.r > 0 {
		copy(b.buf, b.buf[b.r:b.w])
		b.w -= b.r
		b.r = 0
	}

	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := b.rd.Read(b.buf[b.w:])
		if n < 0 {
			b.err = errNegativeRead
			return
		}
		b.w += n
		if err != nil {
			b.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	b.err = io.ErrNoProgress
}

// next returns the next byte, or io.EOF once the stream is exhausted.
func (b *byteSource) next() (byte, error) {
	if len(b.replay) > 0 {
		c := b.replay[0]
		b.replay = b.replay[1:]
		return c, nil
	}
	for b.buffered() == 0 {
		if b.err != nil {
			return 0, b.readErr()
		}
		b.fill()
	}
	c := b.buf[b.r]
	b.r++
	return c, nil
}

func (b *byteSource) readErr() error {
	err := b.err
	if err != io.EOF {
		// Non-EOF stream failures stay pending so every later call
		// keeps reporting them.
		return err
	}
	return io.EOF
}

// peek returns up to n bytes from the front of the stream without consuming
// them. Fewer bytes are returned only when the stream ends first.
func (b *byteSource) peek(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		c, err := b.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	// Re-queue the peeked bytes ahead of everything else.
	b.replay = append(append([]byte{}, out...), b.replay...)
	return out, nil
}

// skip discards n bytes from the front of the stream.
func (b *byteSource) skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := b.next(); err != nil {
			return err
		}
	}
	return nil
}
