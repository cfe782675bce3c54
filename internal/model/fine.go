package model

type Fine struct {
	ID     int `json:"id" db:"id"`
	LoanID int `json:"loan_id" db:"loan_id"`
	// AmountCents is never negative.
	AmountCents int64 `json:"amount_cents" db:"amount_cents"`
	Paid        bool  `json:"paid" db:"paid"`

	BookTitle string `json:"book_title" db:"book_title"`
	MemberID  int    `json:"member_id" db:"member_id"`
}

type FindFine struct {
	ID       *int
	LoanID   *int
	MemberID *int
	Paid     *bool
}
