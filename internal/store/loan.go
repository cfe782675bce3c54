package store

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
)

// loanOrder turns "due_date" or "-issue_date" into loan column orderings.
// The id follows the first column in the same direction so equal dates keep
// insertion order.
func loanOrder(orderBy []string) []exp.OrderedExpression {
	if len(orderBy) == 0 {
		return []exp.OrderedExpression{goqu.I("l.id").Asc()}
	}

	order := make([]exp.OrderedExpression, 0, len(orderBy)+1)
	for _, field := range orderBy {
		if column, desc := strings.CutPrefix(field, "-"); desc {
			order = append(order, goqu.I("l."+column).Desc())
		} else {
			order = append(order, goqu.I("l."+field).Asc())
		}
	}
	if strings.HasPrefix(orderBy[0], "-") {
		return append(order, goqu.I("l.id").Desc())
	}
	return append(order, goqu.I("l.id").Asc())
}

func (s *Store) loanDataset() *goqu.SelectDataset {
	return s.goqu.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("m.id").Eq(goqu.I("l.member_id")))).
		Select(
			goqu.I("l.id"),
			goqu.I("l.book_id"),
			goqu.I("l.member_id"),
			goqu.I("l.issue_date"),
			goqu.I("l.due_date"),
			goqu.I("l.return_date"),
			goqu.I("b.title").As("book_title"),
			goqu.I("b.slug").As("book_slug"),
			goqu.L(`"m"."first_name" || ' ' || "m"."last_name"`).As("member_name"),
		)
}

func (s *Store) GetLoan(ctx context.Context, id int) (*model.Loan, error) {
	limit := 1
	list, err := s.ListLoans(ctx, &model.FindLoan{ID: &id, Limit: &limit})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListLoans returns the matching loans joined with their book and member.
func (s *Store) ListLoans(ctx context.Context, find *model.FindLoan) ([]*model.Loan, error) {
	ds := s.loanDataset().Order(loanOrder(find.OrderBy)...)

	if v := find.ID; v != nil {
		ds = ds.Where(goqu.I("l.id").Eq(*v))
	}
	if v := find.BookID; v != nil {
		ds = ds.Where(goqu.I("l.book_id").Eq(*v))
	}
	if v := find.MemberID; v != nil {
		ds = ds.Where(goqu.I("l.member_id").Eq(*v))
	}
	if v := find.Active; v != nil {
		if *v {
			ds = ds.Where(goqu.I("l.return_date").IsNull())
		} else {
			ds = ds.Where(goqu.I("l.return_date").IsNotNull())
		}
	}
	if v := find.DueBefore; v != nil {
		ds = ds.Where(goqu.I("l.due_date").Lt(*v))
	}
	if v := find.Limit; v != nil {
		ds = ds.Limit(uint(*v))
	}

	list := make([]*model.Loan, 0)
	if err := ds.ScanStructsContext(ctx, &list); err != nil {
		log.Error("Failed to query loans", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list loans")
	}
	return list, nil
}

// ListActiveLoans returns the loans not returned yet, soonest due first,
// annotated with their overdue state on today.
func (s *Store) ListActiveLoans(ctx context.Context, today string) ([]*model.Loan, error) {
	active := true
	list, err := s.ListLoans(ctx, &model.FindLoan{Active: &active, OrderBy: []string{"due_date"}})
	if err != nil {
		return nil, err
	}
	for _, loan := range list {
		loan.AnnotateOverdue(today)
	}
	return list, nil
}

// ListOverdueLoans returns the active loans due strictly before today.
func (s *Store) ListOverdueLoans(ctx context.Context, today string) ([]*model.Loan, error) {
	active := true
	list, err := s.ListLoans(ctx, &model.FindLoan{Active: &active, DueBefore: &today, OrderBy: []string{"due_date"}})
	if err != nil {
		return nil, err
	}
	for _, loan := range list {
		loan.AnnotateOverdue(today)
	}
	return list, nil
}

// IssueLoan lends a copy of a book to a member on today. The loan is written and
// the available copies decremented in one transaction.
func (s *Store) IssueLoan(ctx context.Context, create *model.LoanCreate, today string) (*model.Loan, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	loanID, err := issueLoan(ctx, tx, create, today)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit loan")
	}

	log.Info("Loan issued",
		zap.Int("loan_id", loanID),
		zap.Int("book_id", create.BookID),
		zap.Int("member_id", create.MemberID))
	return s.GetLoan(ctx, loanID)
}

func issueLoan(ctx context.Context, tx *goqu.TxDatabase, create *model.LoanCreate, today string) (int, error) {
	members, err := tx.From("members").Where(goqu.C("id").Eq(create.MemberID)).CountContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to find member")
	}
	if members == 0 {
		return 0, errors.Wrap(ErrNotFound, "member")
	}

	result, err := tx.Update("books").
		Set(goqu.Record{"available_copies": goqu.L("available_copies - 1")}).
		Where(goqu.C("id").Eq(create.BookID), goqu.C("available_copies").Gt(0)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to take copy")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		books, err := tx.From("books").Where(goqu.C("id").Eq(create.BookID)).CountContext(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "failed to find book")
		}
		if books == 0 {
			return 0, errors.Wrap(ErrNotFound, "book")
		}
		return 0, ErrNoCopiesAvailable
	}

	result, err = tx.Insert("loans").Rows(goqu.Record{
		"book_id":    create.BookID,
		"member_id":  create.MemberID,
		"issue_date": today,
		"due_date":   create.DueDate,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert loan")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// ReturnLoan closes an active loan on today and puts the copy back.
// A late return also creates an unpaid fine of finePerDay cents per day overdue.
func (s *Store) ReturnLoan(ctx context.Context, id int, today string, finePerDay int64) (*model.LoanReturn, error) {
	loan, err := s.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrNotFound
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	fine, err := returnLoan(ctx, tx, loan, today, finePerDay)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit return")
	}

	loan.ReturnDate = &today
	loan.IsOverdue, loan.DaysOverdue = false, 0
	log.Info("Loan returned", zap.Int("loan_id", id), zap.Bool("fined", fine != nil))
	return &model.LoanReturn{Loan: loan, Fine: fine}, nil
}

func returnLoan(ctx context.Context, tx *goqu.TxDatabase, loan *model.Loan, today string, finePerDay int64) (*model.Fine, error) {
	result, err := tx.Update("loans").
		Set(goqu.Record{"return_date": today}).
		Where(goqu.C("id").Eq(loan.ID), goqu.C("return_date").IsNull()).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to close loan")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrLoanReturned
	}

	if _, err := tx.Update("books").
		Set(goqu.Record{"available_copies": goqu.L("MIN(available_copies + 1, total_copies)")}).
		Where(goqu.C("id").Eq(loan.BookID)).
		Executor().ExecContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to put copy back")
	}

	if loan.DueDate >= today {
		return nil, nil
	}
	fine := &model.Fine{
		LoanID:      loan.ID,
		AmountCents: int64(model.DaysBetween(loan.DueDate, today)) * finePerDay,
		BookTitle:   loan.BookTitle,
		MemberID:    loan.MemberID,
	}
	result, err = tx.Insert("fines").Rows(goqu.Record{
		"loan_id":      fine.LoanID,
		"amount_cents": fine.AmountCents,
		"paid":         false,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert fine")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	fine.ID = int(id)
	return fine, nil
}

// DeleteLoan removes a loan and its fines. Deleting an active loan puts the copy back.
func (s *Store) DeleteLoan(ctx context.Context, id int) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// A concurrent return may have closed the loan since it was listed.
	var loan struct {
		BookID     int     `db:"book_id"`
		ReturnDate *string `db:"return_date"`
	}
	found, err := tx.From("loans").Select("book_id", "return_date").
		Where(goqu.C("id").Eq(id)).ScanStructContext(ctx, &loan)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to get loan")
	}
	if !found {
		tx.Rollback()
		return ErrNotFound
	}
	if loan.ReturnDate == nil {
		if _, err := tx.Update("books").
			Set(goqu.Record{"available_copies": goqu.L("MIN(available_copies + 1, total_copies)")}).
			Where(goqu.C("id").Eq(loan.BookID)).
			Executor().ExecContext(ctx); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to put copy back")
		}
	}
	if _, err := tx.Delete("loans").Where(goqu.C("id").Eq(id)).Executor().ExecContext(ctx); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete loan")
	}
	return tx.Commit()
}
