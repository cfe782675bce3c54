package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/store/db"
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

func createBook(t *testing.T, s *store.Store, title, isbn, author string, copies int) *model.Book {
	t.Helper()
	book, err := s.CreateBook(context.Background(), &model.BookCreate{
		Title:           title,
		ISBN:            isbn,
		Publisher:       "Ace",
		PublishedDate:   "1965-08-01",
		TotalCopies:     copies,
		AvailableCopies: copies,
		NewAuthorName:   author,
	})
	require.NoError(t, err)
	return book
}

func createMember(t *testing.T, s *store.Store, first, last, email string) *model.Member {
	t.Helper()
	member, err := s.CreateMember(context.Background(), &model.MemberCreate{
		FirstName: first,
		LastName:  last,
		Email:     email,
	}, "2024-01-01")
	require.NoError(t, err)
	return member
}

func issueLoan(t *testing.T, s *store.Store, book *model.Book, member *model.Member, issued, due string) *model.Loan {
	t.Helper()
	loan, err := s.IssueLoan(context.Background(), &model.LoanCreate{
		BookID:   book.ID,
		MemberID: member.ID,
		DueDate:  due,
	}, issued)
	require.NoError(t, err)
	return loan
}
