package main

// lineEditor is a single-line buffer capped at max runes.
type lineEditor struct {
	buf []rune
	max int
}

func newLineEditor(max int) *lineEditor {
	return &lineEditor{buf: make([]rune, 0, max), max: max}
}

// Insert appends r unless the line is full.
func (l *lineEditor) Insert(r rune) bool {
	if len(l.buf) >= l.max {
		return false
	}
	l.buf = append(l.buf, r)
	return true
}

func (l *lineEditor) Backspace() {
	if len(l.buf) > 0 {
		l.buf = l.buf[:len(l.buf)-1]
	}
}

func (l *lineEditor) Clear() {
	l.buf = l.buf[:0]
}

func (l *lineEditor) Len() int {
	return len(l.buf)
}

func (l *lineEditor) String() string {
	return string(l.buf)
}
