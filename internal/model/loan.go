package model

type Loan struct {
	ID       int `json:"id" db:"id"`
	BookID   int `json:"book_id" db:"book_id"`
	MemberID int `json:"member_id" db:"member_id"`
	// Dates use DateLayout.
	IssueDate  string  `json:"issue_date" db:"issue_date"`
	DueDate    string  `json:"due_date" db:"due_date"`
	ReturnDate *string `json:"return_date" db:"return_date"`

	// Joined for display.
	BookTitle  string `json:"book_title" db:"book_title"`
	BookSlug   string `json:"book_slug" db:"book_slug"`
	MemberName string `json:"member_name" db:"member_name"`

	// Derived per request, never stored.
	IsOverdue   bool `json:"is_overdue" db:"-"`
	DaysOverdue int  `json:"days_overdue" db:"-"`
}

// IsActive reports whether the loan has not been returned.
func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

type FindLoan struct {
	ID       *int
	BookID   *int
	MemberID *int
	// Active selects loans without (true) or with (false) a return date.
	Active *bool
	// DueBefore selects loans whose due date is strictly before the date.
	DueBefore *string
	OrderBy   []string
	Limit     *int
}

type LoanCreate struct {
	BookID   int
	MemberID int
	DueDate  string
}

// LoanForm holds the raw values of the issue-loan form.
type LoanForm struct {
	// Book is a book slug or id.
	Book    string `form:"book" validate:"required"`
	Member  string `form:"member" validate:"required,number"`
	DueDate string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// LoanReturnForm holds the raw values of the return-loan form.
type LoanReturnForm struct {
	Loan string `form:"loan" validate:"required,number"`
}

// LoanReturn is the outcome of returning a loan.
type LoanReturn struct {
	Loan *Loan
	// Fine is set when the return was late.
	Fine *Fine
}
