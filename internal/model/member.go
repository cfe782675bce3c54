package model

type Member struct {
	ID        int    `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
	Address   string `json:"address" db:"address"`
	// JoinDate is set once on creation.
	JoinDate string `json:"join_date" db:"join_date"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

type FindMember struct {
	ID    *int
	Email *string
	// Query matches a case-insensitive substring of first name, last name or email.
	Query *string
	Limit *int
}

// MemberSummary is a member annotated with loan counts for listings.
// The counts are computed per query and never stored.
type MemberSummary struct {
	Member
	ActiveLoans int `json:"active_loans" db:"active_loans"`
	TotalLoans  int `json:"total_loans" db:"total_loans"`
}

type MemberCreate struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// MemberForm holds the raw values of the add-member form.
type MemberForm struct {
	FirstName string `form:"first_name" validate:"required,max=100"`
	LastName  string `form:"last_name" validate:"required,max=100"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Phone     string `form:"phone" validate:"max=20"`
	Address   string `form:"address"`
}

// MemberDetail is everything the member page shows.
type MemberDetail struct {
	Member           *Member
	ActiveLoans      []*Loan
	LoanHistory      []*Loan
	UnpaidFines      []*Fine
	TotalUnpaidFines int64
}
