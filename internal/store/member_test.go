package store_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
)

func TestCreateMember(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	member := createMember(t, s, "Leto", "Atreides", "leto@arrakis.test")
	assert.Equal(t, "2024-01-01", member.JoinDate)
	assert.Equal(t, "Leto Atreides", member.FullName())

	_, err := s.CreateMember(ctx, &model.MemberCreate{FirstName: "Other", LastName: "Leto", Email: "leto@arrakis.test"}, "2024-02-01")
	assert.True(t, errors.Is(err, store.ErrConflict))

	exists, err := s.MemberExists(ctx, "leto@arrakis.test")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListMembersWithLoanCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 3)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")
	createMember(t, s, "Gurney", "Halleck", "gurney@caladan.test")

	issueLoan(t, s, book, paul, "2024-01-01", "2024-01-15")
	returned := issueLoan(t, s, book, paul, "2024-01-01", "2024-01-15")
	_, err := s.ReturnLoan(ctx, returned.ID, "2024-01-10", 25)
	require.NoError(t, err)

	members, err := s.ListMembers(ctx, &model.FindMember{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Atreides", members[0].LastName)
	assert.Equal(t, 1, members[0].ActiveLoans)
	assert.Equal(t, 2, members[0].TotalLoans)
	assert.Equal(t, "Halleck", members[1].LastName)
	assert.Equal(t, 0, members[1].ActiveLoans)
	assert.Equal(t, 0, members[1].TotalLoans)

	for _, query := range []string{"GURNEY", "halle", "caladan"} {
		q := query
		found, err := s.ListMembers(ctx, &model.FindMember{Query: &q})
		require.NoError(t, err)
		require.Len(t, found, 1, query)
		assert.Equal(t, "Gurney", found[0].FirstName)
	}
}

func TestGetMemberDetail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	dune := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 2)
	emma := createBook(t, s, "Emma", "0141439580", "Jane Austen", 2)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")

	first := issueLoan(t, s, dune, paul, "2024-01-01", "2024-01-05")
	second := issueLoan(t, s, emma, paul, "2024-02-01", "2024-02-05")
	third := issueLoan(t, s, dune, paul, "2024-03-01", "2024-03-20")

	_, err := s.ReturnLoan(ctx, first.ID, "2024-01-09", 25)
	require.NoError(t, err)
	ret, err := s.ReturnLoan(ctx, second.ID, "2024-02-07", 25)
	require.NoError(t, err)
	_, err = s.PayFine(ctx, ret.Fine.ID)
	require.NoError(t, err)

	detail, err := s.GetMemberDetail(ctx, paul.ID, "2024-03-25")
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, paul.ID, detail.Member.ID)
	require.Len(t, detail.ActiveLoans, 1)
	assert.Equal(t, third.ID, detail.ActiveLoans[0].ID)
	assert.True(t, detail.ActiveLoans[0].IsOverdue)
	assert.Equal(t, 5, detail.ActiveLoans[0].DaysOverdue)

	require.Len(t, detail.LoanHistory, 3)
	assert.Equal(t, third.ID, detail.LoanHistory[0].ID)
	assert.Equal(t, first.ID, detail.LoanHistory[2].ID)

	require.Len(t, detail.UnpaidFines, 1)
	assert.Equal(t, int64(100), detail.TotalUnpaidFines)

	missing, err := s.GetMemberDetail(ctx, paul.ID+100, "2024-03-25")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemberDetailWithoutFines(t *testing.T) {
	s := newTestStore(t)
	member := createMember(t, s, "Alia", "Atreides", "alia@arrakis.test")

	detail, err := s.GetMemberDetail(context.Background(), member.ID, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, detail.ActiveLoans)
	assert.Empty(t, detail.LoanHistory)
	assert.Empty(t, detail.UnpaidFines)
	assert.Equal(t, int64(0), detail.TotalUnpaidFines)
}

func TestDeleteMember(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 2)
	paul := createMember(t, s, "Paul", "Atreides", "paul@arrakis.test")
	issueLoan(t, s, book, paul, "2024-01-01", "2024-01-15")
	issueLoan(t, s, book, paul, "2024-01-01", "2024-01-15")

	require.NoError(t, s.DeleteMember(ctx, paul.ID))

	book, err := s.GetBook(ctx, &model.FindBook{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)

	loans, err := s.ListLoans(ctx, &model.FindLoan{BookID: &book.ID})
	require.NoError(t, err)
	assert.Empty(t, loans)

	assert.True(t, errors.Is(s.DeleteMember(ctx, paul.ID), store.ErrNotFound))
}
