package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/model"
)

func TestDashboardMetrics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	dune := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 5)
	createBook(t, s, "Emma", "0141439580", "Jane Austen", 1)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")
	createMember(t, s, "Alia", "Atreides", "alia@arrakis.test")
	createMember(t, s, "Gurney", "Halleck", "gurney@caladan.test")

	today := "2024-06-10"
	// Two overdue, one due today, one due later and one returned late.
	issueLoan(t, s, dune, paul, "2024-05-01", "2024-06-09")
	issueLoan(t, s, dune, paul, "2024-05-01", "2024-05-15")
	issueLoan(t, s, dune, paul, "2024-06-01", "2024-06-10")
	issueLoan(t, s, dune, paul, "2024-06-01", "2024-07-01")
	returned := issueLoan(t, s, dune, paul, "2024-05-01", "2024-05-02")
	_, err := s.ReturnLoan(ctx, returned.ID, "2024-06-01", 25)
	require.NoError(t, err)

	metrics, err := s.GetDashboardMetrics(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardMetrics{
		TotalBooks:   2,
		TotalMembers: 3,
		ActiveLoans:  4,
		OverdueLoans: 2,
	}, metrics)
}

func TestRecentActivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 10)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")

	loans := []*model.Loan{}
	for _, issued := range []string{"2024-01-03", "2024-01-01", "2024-01-07", "2024-01-05", "2024-01-02", "2024-01-06", "2024-01-04"} {
		loans = append(loans, issueLoan(t, s, book, paul, issued, "2024-02-01"))
	}
	_, err := s.ReturnLoan(ctx, loans[1].ID, "2024-01-20", 25)
	require.NoError(t, err)
	_, err = s.ReturnLoan(ctx, loans[0].ID, "2024-01-10", 25)
	require.NoError(t, err)

	recent, err := s.ListRecentLoans(ctx, 5)
	require.NoError(t, err)
	dates := []string{}
	for _, loan := range recent {
		dates = append(dates, loan.IssueDate)
	}
	assert.Equal(t, []string{"2024-01-07", "2024-01-06", "2024-01-05", "2024-01-04", "2024-01-03"}, dates)

	returns, err := s.ListRecentReturns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.Equal(t, loans[1].ID, returns[0].ID)
	assert.Equal(t, loans[0].ID, returns[1].ID)
}

func TestPopularBooks(t *testing.T) {
	s := newTestStore(t)

	dune := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 5)
	emma := createBook(t, s, "Emma", "0141439580", "Jane Austen", 5)
	solaris := createBook(t, s, "Solaris", "0156027607", "Stanisław Lem", 5)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")

	issueLoan(t, s, emma, paul, "2024-01-01", "2024-01-10")
	issueLoan(t, s, emma, paul, "2024-01-01", "2024-01-10")
	issueLoan(t, s, solaris, paul, "2024-01-01", "2024-01-10")

	popular, err := s.ListPopularBooks(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, emma.ID, popular[0].ID)
	assert.Equal(t, 2, popular[0].LoanCount)
	assert.Equal(t, solaris.ID, popular[1].ID)
	assert.Equal(t, dune.ID, popular[2].ID)
	assert.Equal(t, 0, popular[2].LoanCount)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	createBook(t, s, "Dune", "0441013597", "Frank Herbert", 1)
	createMember(t, s, "Dune", "Walker", "walker@arrakis.test")
	createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")
	_, err := s.GetOrCreateAuthor(ctx, "Brian Herbert", "")
	require.NoError(t, err)

	results, err := s.Search(ctx, "")
	require.NoError(t, err)
	assert.True(t, results.Empty())
	assert.NotNil(t, results.Books)

	results, err = s.Search(ctx, "   ")
	require.NoError(t, err)
	assert.True(t, results.Empty())

	results, err = s.Search(ctx, "dune")
	require.NoError(t, err)
	assert.Len(t, results.Books, 1)
	assert.Len(t, results.Members, 1)
	assert.Empty(t, results.Authors)

	results, err = s.Search(ctx, "HERBERT")
	require.NoError(t, err)
	assert.Len(t, results.Books, 1)
	assert.Len(t, results.Authors, 2)
}

func TestSearchIsCapped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 12; i++ {
		_, err := s.GetOrCreateAuthor(ctx, "Author "+string(rune('A'+i)), "")
		require.NoError(t, err)
	}

	results, err := s.Search(ctx, "author")
	require.NoError(t, err)
	assert.Len(t, results.Authors, 10)
}
