package model

type Author struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Biography string `json:"biography" db:"biography"`
	// BookCount is only filled by listings.
	BookCount int `json:"book_count" db:"book_count"`
}

type FindAuthor struct {
	ID   *int
	Name *string
	// Query matches a case-insensitive substring of the name.
	Query *string
	Limit *int
}
