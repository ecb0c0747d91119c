package view

// List is an ordered set of text rows, top first: the terminal stand-in for
// one on-screen list. It is owned by the session loop and not safe for
// concurrent use.
type List struct {
	rows  []string
	limit int
}

// NewList returns an empty list. A positive limit caps the row count by
// dropping rows from the bottom.
func NewList(limit int) *List {
	if limit < 0 {
		limit = 0
	}
	return &List{limit: limit}
}

// Rows returns a copy of the visible rows.
func (l *List) Rows() []string {
	out := make([]string, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *List) Len() int { return len(l.rows) }

func (l *List) Clear() { l.rows = l.rows[:0] }

func (l *List) Append(row string) {
	l.rows = append(l.rows, row)
	l.trim()
}

func (l *List) Prepend(row string) {
	l.rows = append(l.rows, "")
	copy(l.rows[1:], l.rows)
	l.rows[0] = row
	l.trim()
}

// ShowsOnly reports whether the list holds exactly one row equal to row.
func (l *List) ShowsOnly(row string) bool {
	return len(l.rows) == 1 && l.rows[0] == row
}

func (l *List) trim() {
	if l.limit > 0 && len(l.rows) > l.limit {
		l.rows = l.rows[:l.limit]
	}
}
