package csv

// Record is a row paired with the name-based lookup derived from the header
// row. All records of one Reader share the same lookup.
type Record struct {
	Row []string

	lookup map[string]int
}

// Get returns the field under the named header column. ok is false when the
// header has no such name.
func (r *Record) Get(name string) (string, bool) {
	i, ok := r.lookup[name]
	if !ok || i >= len(r.Row) {
		return "", false
	}
	return r.Row[i], true
}

// Index returns the column index of a header name.
func (r *Record) Index(name string) (int, bool) {
	i, ok := r.lookup[name]
	return i, ok
}

// Len returns the number of fields in the record.
func (r *Record) Len() int { return len(r.Row) }
