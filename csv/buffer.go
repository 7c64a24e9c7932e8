package csv

// scalarBuffer holds scalars pushed back after speculative lookahead.
// The parser always drains it before pulling from the decoder again, so a
// failed delimiter match replays exactly the scalars it consumed.
type scalarBuffer struct {
	stack []rune
}

// next pops the most recently pushed scalar.
func (b *scalarBuffer) next() (rune, bool) {
	if len(b.stack) == 0 {
		return 0, false
	}
	r := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return r, true
}

// prepend pushes one scalar back; the next call to next returns it.
func (b *scalarBuffer) prepend(r rune) {
	b.stack = append(b.stack, r)
}

// prependAll pushes scalars back so they replay in their original order.
func (b *scalarBuffer) prependAll(rs []rune) {
	for i := len(rs) - 1; i >= 0; i-- {
		b.stack = append(b.stack, rs[i])
	}
}

func (b *scalarBuffer) reset() {
	b.stack = b.stack[:0]
}
