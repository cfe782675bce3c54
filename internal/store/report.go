package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/ihsan-khan/library-management-system/internal/model"
)

// GetDashboardMetrics counts books, members, active loans and loans overdue on today.
func (s *Store) GetDashboardMetrics(ctx context.Context, today string) (*model.DashboardMetrics, error) {
	books, err := s.goqu.From("books").CountContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count books")
	}
	members, err := s.goqu.From("members").CountContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count members")
	}
	active := s.goqu.From("loans").Where(goqu.C("return_date").IsNull())
	activeLoans, err := active.CountContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count active loans")
	}
	overdueLoans, err := active.Where(goqu.C("due_date").Lt(today)).CountContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count overdue loans")
	}

	return &model.DashboardMetrics{
		TotalBooks:   int(books),
		TotalMembers: int(members),
		ActiveLoans:  int(activeLoans),
		OverdueLoans: int(overdueLoans),
	}, nil
}

// ListRecentLoans returns the last limit loans by issue date.
func (s *Store) ListRecentLoans(ctx context.Context, limit int) ([]*model.Loan, error) {
	return s.ListLoans(ctx, &model.FindLoan{OrderBy: []string{"-issue_date"}, Limit: &limit})
}

// ListRecentReturns returns the last limit returned loans by return date.
func (s *Store) ListRecentReturns(ctx context.Context, limit int) ([]*model.Loan, error) {
	returned := false
	return s.ListLoans(ctx, &model.FindLoan{Active: &returned, OrderBy: []string{"-return_date"}, Limit: &limit})
}

// ListPopularBooks returns the limit books lent most often. Ties keep insertion order.
func (s *Store) ListPopularBooks(ctx context.Context, limit int) ([]*model.PopularBook, error) {
	list := make([]*model.PopularBook, 0)
	err := s.goqu.From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("loans").As("l"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Select(append(bookColumns(), goqu.COUNT(goqu.I("l.id")).As("loan_count"))...).
		GroupBy(goqu.I("b.id")).
		Order(goqu.I("loan_count").Desc(), goqu.I("b.id").Asc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &list)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list popular books")
	}
	return list, nil
}
