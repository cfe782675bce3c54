package model

import "time"

// DateLayout is the layout of every stored date.
const DateLayout = "2006-01-02"

// FormatDate truncates t to its calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole days from `from` to `to`.
// Both are DateLayout dates; a parse failure yields 0.
func DaysBetween(from, to string) int {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0
	}
	return int(t.Sub(f).Hours() / 24)
}

// AnnotateOverdue fills the derived overdue fields of an active loan for today.
func (l *Loan) AnnotateOverdue(today string) {
	l.IsOverdue = l.IsActive() && l.DueDate < today
	l.DaysOverdue = 0
	if l.IsOverdue {
		l.DaysOverdue = DaysBetween(l.DueDate, today)
	}
}
