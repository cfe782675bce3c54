package model

type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	AuthorID        int    `json:"author_id" db:"author_id"`
	ISBN            string `json:"isbn" db:"isbn"`
	Publisher       string `json:"publisher" db:"publisher"`
	PublishedDate   string `json:"published_date" db:"published_date"`
	TotalCopies     int    `json:"total_copies" db:"total_copies"`
	AvailableCopies int    `json:"available_copies" db:"available_copies"`
	Slug            string `json:"slug" db:"slug"`

	// Author and Categories are loaded alongside the book row.
	Author     *Author     `json:"author" db:"-"`
	Categories []*Category `json:"categories" db:"-"`
}

// IsAvailable reports whether at least one copy can be lent.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

type FindBook struct {
	ID   *int
	Slug *string
	ISBN *string
	// Query matches a case-insensitive substring of the title, the author name or the ISBN.
	Query      *string
	CategoryID *int
	AuthorID   *int

	// The maximum number of books to return.
	Limit *int
}

// BookCreate is a validated request to add a book.
// Exactly one of AuthorID and NewAuthorName is set.
type BookCreate struct {
	Title           string
	ISBN            string
	Publisher       string
	PublishedDate   string
	TotalCopies     int
	AvailableCopies int

	AuthorID           *int
	NewAuthorName      string
	NewAuthorBiography string
	CategoryIDs        []int
	NewCategoryNames   []string
}

// BookForm holds the raw values of the add-book form.
type BookForm struct {
	Title              string   `form:"title" validate:"required,max=200"`
	Author             string   `form:"author" validate:"omitempty,number"`
	ISBN               string   `form:"isbn" validate:"required,isbn_shape"`
	Categories         []string `form:"category" validate:"dive,number"`
	Publisher          string   `form:"publisher" validate:"required,max=100"`
	PublishedDate      string   `form:"published_date" validate:"required,datetime=2006-01-02"`
	TotalCopies        string   `form:"total_copies" validate:"required,number"`
	AvailableCopies    string   `form:"available_copies" validate:"omitempty,number"`
	NewAuthorName      string   `form:"new_author_name" validate:"max=100"`
	NewAuthorBiography string   `form:"new_author_biography"`
	NewCategories      string   `form:"new_categories"`
}

// PopularBook is a book annotated with the number of loans it has had.
type PopularBook struct {
	Book
	LoanCount int `json:"loan_count" db:"loan_count"`
}
