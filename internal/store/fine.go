package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
)

func (s *Store) GetFine(ctx context.Context, find *model.FindFine) (*model.Fine, error) {
	list, err := s.ListFines(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListFines returns the matching fines, oldest first, with the title of the lent book.
func (s *Store) ListFines(ctx context.Context, find *model.FindFine) ([]*model.Fine, error) {
	ds := s.goqu.From(goqu.T("fines").As("f")).
		Join(goqu.T("loans").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("f.loan_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Select(
			goqu.I("f.id"),
			goqu.I("f.loan_id"),
			goqu.I("f.amount_cents"),
			goqu.I("f.paid"),
			goqu.I("b.title").As("book_title"),
			goqu.I("l.member_id"),
		).
		Order(goqu.I("f.id").Asc())

	if v := find.ID; v != nil {
		ds = ds.Where(goqu.I("f.id").Eq(*v))
	}
	if v := find.LoanID; v != nil {
		ds = ds.Where(goqu.I("f.loan_id").Eq(*v))
	}
	if v := find.MemberID; v != nil {
		ds = ds.Where(goqu.I("l.member_id").Eq(*v))
	}
	if v := find.Paid; v != nil {
		ds = ds.Where(goqu.I("f.paid").Eq(*v))
	}

	list := make([]*model.Fine, 0)
	if err := ds.ScanStructsContext(ctx, &list); err != nil {
		log.Error("Failed to query fines", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list fines")
	}
	return list, nil
}

// PayFine marks a fine paid and returns it.
func (s *Store) PayFine(ctx context.Context, id int) (*model.Fine, error) {
	s.dbLock.Lock()
	result, err := s.goqu.Update("fines").
		Set(goqu.Record{"paid": true}).
		Where(goqu.C("id").Eq(id)).
		Executor().ExecContext(ctx)
	s.dbLock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "failed to pay fine")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	log.Info("Fine paid", zap.Int("fine_id", id))
	return s.GetFine(ctx, &model.FindFine{ID: &id})
}
