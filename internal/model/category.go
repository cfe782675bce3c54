package model

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	// BookCount is only filled by listings.
	BookCount int `json:"book_count" db:"book_count"`
}

type BookCategoryLink struct {
	ID         int `json:"id"`
	BookID     int `json:"book"`
	CategoryID int `json:"category"`
}
