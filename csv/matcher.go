package csv

// scalarPull produces the next scalar of the stream, buffer first, then
// decoder. ok is false at end of input.
type scalarPull func() (r rune, ok bool, err error)

// matchDelimiter reports whether first begins the given delimiter,
// consuming as few scalars as possible. Scalars read but not confirmed are
// pushed back onto buf so the stream replays unchanged.
func matchDelimiter(first rune, delim []rune, buf *scalarBuffer, pull scalarPull) (bool, error) {
	if first != delim[0] {
		return false, nil
	}
	switch len(delim) {
	case 1:
		return true, nil
	case 2:
		second, ok, err := pull()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if second == delim[1] {
			return true, nil
		}
		buf.prepend(second)
		return false, nil
	}

	read := make([]rune, 0, len(delim)-1)
	for _, want := range delim[1:] {
		r, ok, err := pull()
		if err != nil {
			return false, err
		}
		if !ok || r != want {
			if ok {
				read = append(read, r)
			}
			buf.prependAll(read)
			return false, nil
		}
		read = append(read, r)
	}
	return true, nil
}

// matchAnyDelimiter tries each candidate delimiter against the stream.
// Single-scalar candidates are checked first since they never touch the
// buffer; multi-scalar candidates are attempted shortest first.
func matchAnyDelimiter(first rune, candidates [][]rune, buf *scalarBuffer, pull scalarPull) (bool, error) {
	for _, cand := range candidates {
		if len(cand) == 1 && cand[0] == first {
			return true, nil
		}
	}
	for length := 2; length <= maxCandidateLength(candidates); length++ {
		for _, cand := range candidates {
			if len(cand) != length {
				continue
			}
			matched, err := matchDelimiter(first, cand, buf, pull)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

func maxCandidateLength(candidates [][]rune) int {
	max := 0
	for _, cand := range candidates {
		if len(cand) > max {
			max = len(cand)
		}
	}
	return max
}
