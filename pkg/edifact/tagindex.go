package edifact

// tagIndexList collects the index values of one segment tag (TAG:IDX1:IDX2).
// The parser resets it at the start of every tag and after the indexes are emitted,
// so a segment never sees indexes of the previous one.
type tagIndexList struct {
	values []string
}

// reset empties the list, keeping its capacity.
func (l *tagIndexList) reset() {
	clear(l.values)
	l.values = l.values[:0]
}

// add appends an escape-resolved index value.
func (l *tagIndexList) add(value string) {
	l.values = append(l.values, value)
}

func (l *tagIndexList) len() int {
	return len(l.values)
}

// drain calls fn for every value in parse order and empties the list.
func (l *tagIndexList) drain(fn func(value string)) {
	for _, v := range l.values {
		fn(v)
	}
	l.reset()
}
