package validator_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/store/db"
	"github.com/ihsan-khan/library-management-system/internal/validator"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	require.NoError(t, d.Migrate(context.Background()))

	s := store.NewStore(d.DB)
	t.Cleanup(func() { s.Close() })
	return s
}

func bookForm() *model.BookForm {
	return &model.BookForm{
		Title:         " Dune ",
		ISBN:          "0-306-40615-2",
		Publisher:     "Ace",
		PublishedDate: "1965-08-01",
		TotalCopies:   "3",
		NewAuthorName: "Frank Herbert",
	}
}

func fieldErrors(t *testing.T, err error) validator.FieldErrors {
	t.Helper()
	var fieldErrs validator.FieldErrors
	require.True(t, errors.As(err, &fieldErrs), "expected field errors, got %v", err)
	return fieldErrs
}

func TestValidateBookCreateRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	form := bookForm()
	form.NewCategories = "Sci-Fi, , Classic "
	create, err := validator.ValidateBookCreateRequest(ctx, s, form)
	require.NoError(t, err)

	assert.Equal(t, "Dune", create.Title)
	assert.Equal(t, "0306406152", create.ISBN)
	assert.Equal(t, 3, create.TotalCopies)
	assert.Equal(t, 3, create.AvailableCopies)
	assert.Nil(t, create.AuthorID)
	assert.Equal(t, "Frank Herbert", create.NewAuthorName)
	assert.Equal(t, []string{"Sci-Fi", "Classic"}, create.NewCategoryNames)
}

func TestValidateBookAuthorChoice(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	author, err := s.GetOrCreateAuthor(ctx, "Ursula K. Le Guin", "")
	require.NoError(t, err)

	form := bookForm()
	form.NewAuthorName = ""
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.Contains(t, fieldErrors(t, err)[validator.NonFieldKey], "select an existing author")

	form = bookForm()
	form.Author = "1"
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.Contains(t, fieldErrors(t, err)[validator.NonFieldKey], "not both")

	form = bookForm()
	form.NewAuthorName = ""
	form.Author = "999"
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.True(t, fieldErrors(t, err).Has("author"))

	form = bookForm()
	form.NewAuthorName = ""
	form.Author = "1"
	create, err := validator.ValidateBookCreateRequest(ctx, s, form)
	require.NoError(t, err)
	require.NotNil(t, create.AuthorID)
	assert.Equal(t, author.ID, *create.AuthorID)
}

func TestValidateBookCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []struct {
		name      string
		total     string
		available string
		field     string
	}{
		{name: "available exceeds total", total: "2", available: "3", field: validator.NonFieldKey},
		{name: "zero total", total: "0", field: "total_copies"},
		{name: "negative total", total: "-1", field: "total_copies"},
		{name: "missing total", total: "", field: "total_copies"},
		{name: "non-numeric available", total: "2", available: "two", field: "available_copies"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			form := bookForm()
			form.TotalCopies = test.total
			form.AvailableCopies = test.available
			_, err := validator.ValidateBookCreateRequest(ctx, s, form)
			assert.True(t, fieldErrors(t, err).Has(test.field))
		})
	}

	form := bookForm()
	form.TotalCopies = "2"
	form.AvailableCopies = "0"
	create, err := validator.ValidateBookCreateRequest(ctx, s, form)
	require.NoError(t, err)
	assert.Equal(t, 0, create.AvailableCopies)
}

func TestValidateBookISBN(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, isbn := range []string{"0-306-40615-2", "123456789X", "123456789x", "978 0 441 01359 3"} {
		form := bookForm()
		form.ISBN = isbn
		_, err := validator.ValidateBookCreateRequest(ctx, s, form)
		assert.NoError(t, err, isbn)
	}
	for _, isbn := range []string{"12345", "12345678X9", "abcdefghij", "12345678901"} {
		form := bookForm()
		form.ISBN = isbn
		_, err := validator.ValidateBookCreateRequest(ctx, s, form)
		assert.True(t, fieldErrors(t, err).Has("isbn"), isbn)
	}

	create, err := validator.ValidateBookCreateRequest(ctx, s, bookForm())
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, create)
	require.NoError(t, err)

	form := bookForm()
	form.ISBN = "0306406152"
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.Contains(t, fieldErrors(t, err)["isbn"], "already exists")

	form = bookForm()
	form.ISBN = "123456789X"
	create, err = validator.ValidateBookCreateRequest(ctx, s, form)
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, create)
	require.NoError(t, err)

	form = bookForm()
	form.ISBN = "123456789x"
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.Contains(t, fieldErrors(t, err)["isbn"], "already exists")
}

func TestValidateBookCategories(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	fiction, err := s.GetOrCreateCategory(ctx, "Fiction")
	require.NoError(t, err)

	form := bookForm()
	form.Categories = []string{"1", "1"}
	create, err := validator.ValidateBookCreateRequest(ctx, s, form)
	require.NoError(t, err)
	assert.Equal(t, []int{fiction.ID}, create.CategoryIDs)

	form = bookForm()
	form.Categories = []string{"1", "42"}
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.True(t, fieldErrors(t, err).Has("category"))

	form = bookForm()
	form.Categories = []string{"fiction"}
	_, err = validator.ValidateBookCreateRequest(ctx, s, form)
	assert.True(t, fieldErrors(t, err).Has("category"))
}

func TestValidateBookRequiredFields(t *testing.T) {
	s := newTestStore(t)

	_, err := validator.ValidateBookCreateRequest(context.Background(), s, &model.BookForm{NewAuthorName: "X"})
	fieldErrs := fieldErrors(t, err)
	for _, field := range []string{"title", "isbn", "publisher", "published_date", "total_copies"} {
		assert.Equal(t, "This field is required.", fieldErrs[field], field)
	}
	assert.Contains(t, fieldErrs.Error(), "title: This field is required.")
}

func TestValidateMemberCreateRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	form := &model.MemberForm{FirstName: "Ada", LastName: "Lovelace", Email: " ada@example.com "}
	create, err := validator.ValidateMemberCreateRequest(ctx, s, form)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", create.Email)
	_, err = s.CreateMember(ctx, create, "2024-01-01")
	require.NoError(t, err)

	_, err = validator.ValidateMemberCreateRequest(ctx, s, &model.MemberForm{FirstName: "Ada", LastName: "King", Email: "ada@example.com"})
	assert.Contains(t, fieldErrors(t, err)["email"], "already exists")

	_, err = validator.ValidateMemberCreateRequest(ctx, s, &model.MemberForm{FirstName: "Ada", Email: "not-an-email"})
	fieldErrs := fieldErrors(t, err)
	assert.True(t, fieldErrs.Has("last_name"))
	assert.Equal(t, "Enter a valid email address.", fieldErrs["email"])
}

func TestValidateLoanIssueRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book, err := s.CreateBook(ctx, &model.BookCreate{
		Title: "Dune", ISBN: "0441013597", Publisher: "Ace", PublishedDate: "1965-08-01",
		TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert",
	})
	require.NoError(t, err)
	member, err := s.CreateMember(ctx, &model.MemberCreate{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "2024-01-01")
	require.NoError(t, err)

	create, err := validator.ValidateLoanIssueRequest(ctx, s, &model.LoanForm{Book: "dune", Member: "1"}, "2024-03-01", 14)
	require.NoError(t, err)
	assert.Equal(t, book.ID, create.BookID)
	assert.Equal(t, member.ID, create.MemberID)
	assert.Equal(t, "2024-03-15", create.DueDate)

	_, err = validator.ValidateLoanIssueRequest(ctx, s, &model.LoanForm{Book: "1", Member: "1", DueDate: "2024-02-28"}, "2024-03-01", 14)
	assert.True(t, fieldErrors(t, err).Has("due_date"))

	_, err = validator.ValidateLoanIssueRequest(ctx, s, &model.LoanForm{Book: "missing", Member: "7"}, "2024-03-01", 14)
	fieldErrs := fieldErrors(t, err)
	assert.True(t, fieldErrs.Has("book"))
	assert.True(t, fieldErrs.Has("member"))

	_, err = s.IssueLoan(ctx, create, "2024-03-01")
	require.NoError(t, err)
	_, err = validator.ValidateLoanIssueRequest(ctx, s, &model.LoanForm{Book: "dune", Member: "1"}, "2024-03-01", 14)
	assert.Contains(t, fieldErrors(t, err)["book"], "No copies")
}

func TestValidateLoanIssueNumericSlug(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, book := range []*model.BookCreate{
		{Title: "Two", ISBN: "0441013597", TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert"},
		{Title: "1", ISBN: "0306406152", TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert"},
	} {
		book.Publisher = "Ace"
		book.PublishedDate = "1965-08-01"
		_, err := s.CreateBook(ctx, book)
		require.NoError(t, err)
	}
	_, err := s.CreateMember(ctx, &model.MemberCreate{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "2024-01-01")
	require.NoError(t, err)

	slug := "1"
	titled, err := s.GetBook(ctx, &model.FindBook{Slug: &slug})
	require.NoError(t, err)
	require.NotNil(t, titled)
	require.NotEqual(t, 1, titled.ID)

	create, err := validator.ValidateLoanIssueRequest(ctx, s, &model.LoanForm{Book: "1", Member: "1"}, "2024-03-01", 14)
	require.NoError(t, err)
	assert.Equal(t, titled.ID, create.BookID)
}

func TestValidateLoanReturnRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book, err := s.CreateBook(ctx, &model.BookCreate{
		Title: "Dune", ISBN: "0441013597", Publisher: "Ace", PublishedDate: "1965-08-01",
		TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert",
	})
	require.NoError(t, err)
	member, err := s.CreateMember(ctx, &model.MemberCreate{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "2024-01-01")
	require.NoError(t, err)
	loan, err := s.IssueLoan(ctx, &model.LoanCreate{BookID: book.ID, MemberID: member.ID, DueDate: "2024-03-15"}, "2024-03-01")
	require.NoError(t, err)

	id, err := validator.ValidateLoanReturnRequest(ctx, s, &model.LoanReturnForm{Loan: "1"})
	require.NoError(t, err)
	assert.Equal(t, loan.ID, id)

	_, err = s.ReturnLoan(ctx, loan.ID, "2024-03-10", 50)
	require.NoError(t, err)
	_, err = validator.ValidateLoanReturnRequest(ctx, s, &model.LoanReturnForm{Loan: "1"})
	assert.Contains(t, fieldErrors(t, err)["loan"], "already been returned")

	_, err = validator.ValidateLoanReturnRequest(ctx, s, &model.LoanReturnForm{Loan: "x"})
	assert.True(t, fieldErrors(t, err).Has("loan"))
	_, err = validator.ValidateLoanReturnRequest(ctx, s, &model.LoanReturnForm{Loan: "9"})
	assert.True(t, fieldErrors(t, err).Has("loan"))
}
