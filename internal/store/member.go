package store

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
)

// memberQuery matches the first name, the last name or the email.
func memberQuery(query string) goqu.Expression {
	needle := strings.ToLower(strings.TrimSpace(query))
	return goqu.Or(
		casefoldContains("m.first_name", needle),
		casefoldContains("m.last_name", needle),
		casefoldContains("m.email", needle),
	)
}

func memberColumns() []any {
	return []any{
		goqu.I("m.id"),
		goqu.I("m.first_name"),
		goqu.I("m.last_name"),
		goqu.I("m.email"),
		goqu.I("m.phone"),
		goqu.I("m.address"),
		goqu.I("m.join_date"),
	}
}

func (s *Store) GetMember(ctx context.Context, find *model.FindMember) (*model.Member, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.ListMembers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0].Member, nil
}

// ListMembers returns the matching members ordered by name, annotated with
// their active and total loan counts.
func (s *Store) ListMembers(ctx context.Context, find *model.FindMember) ([]*model.MemberSummary, error) {
	ds := s.goqu.From(goqu.T("members").As("m")).
		LeftJoin(goqu.T("loans").As("l"), goqu.On(goqu.I("l.member_id").Eq(goqu.I("m.id")))).
		Select(append(memberColumns(),
			goqu.SUM(goqu.Case().
				When(goqu.And(goqu.I("l.id").IsNotNull(), goqu.I("l.return_date").IsNull()), 1).
				Else(0)).As("active_loans"),
			goqu.COUNT(goqu.I("l.id")).As("total_loans"),
		)...).
		GroupBy(goqu.I("m.id")).
		Order(goqu.I("m.last_name").Asc(), goqu.I("m.first_name").Asc(), goqu.I("m.id").Asc())

	if v := find.ID; v != nil {
		ds = ds.Where(goqu.I("m.id").Eq(*v))
	}
	if v := find.Email; v != nil {
		ds = ds.Where(goqu.I("m.email").Eq(*v))
	}
	if v := find.Query; v != nil && strings.TrimSpace(*v) != "" {
		ds = ds.Where(memberQuery(*v))
	}
	if v := find.Limit; v != nil {
		ds = ds.Limit(uint(*v))
	}

	list := make([]*model.MemberSummary, 0)
	if err := ds.ScanStructsContext(ctx, &list); err != nil {
		log.Error("Failed to query members", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list members")
	}
	return list, nil
}

// MemberExists reports whether a member uses email.
func (s *Store) MemberExists(ctx context.Context, email string) (bool, error) {
	count, err := s.goqu.From("members").Where(goqu.C("email").Eq(email)).CountContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to check email")
	}
	return count > 0, nil
}

// CreateMember stores a member who joins on today.
func (s *Store) CreateMember(ctx context.Context, create *model.MemberCreate, today string) (*model.Member, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	result, err := s.goqu.Insert("members").Rows(goqu.Record{
		"first_name": create.FirstName,
		"last_name":  create.LastName,
		"email":      create.Email,
		"phone":      create.Phone,
		"address":    create.Address,
		"join_date":  today,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return nil, wrapWriteErr(err, "failed to insert member")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	log.Info("Member created", zap.Int64("member_id", id))
	return &model.Member{
		ID:        int(id),
		FirstName: create.FirstName,
		LastName:  create.LastName,
		Email:     create.Email,
		Phone:     create.Phone,
		Address:   create.Address,
		JoinDate:  today,
	}, nil
}

// GetMemberDetail gathers the member page: active loans, the loan history
// newest first and the unpaid fines with their total. It returns nil when the
// member does not exist.
func (s *Store) GetMemberDetail(ctx context.Context, id int, today string) (*model.MemberDetail, error) {
	member, err := s.GetMember(ctx, &model.FindMember{ID: &id})
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	active := true
	activeLoans, err := s.ListLoans(ctx, &model.FindLoan{MemberID: &id, Active: &active, OrderBy: []string{"due_date"}})
	if err != nil {
		return nil, err
	}
	for _, loan := range activeLoans {
		loan.AnnotateOverdue(today)
	}

	history, err := s.ListLoans(ctx, &model.FindLoan{MemberID: &id, OrderBy: []string{"-issue_date"}})
	if err != nil {
		return nil, err
	}

	paid := false
	fines, err := s.ListFines(ctx, &model.FindFine{MemberID: &id, Paid: &paid})
	if err != nil {
		return nil, err
	}

	var total int64
	for _, fine := range fines {
		total += fine.AmountCents
	}

	return &model.MemberDetail{
		Member:           member,
		ActiveLoans:      activeLoans,
		LoanHistory:      history,
		UnpaidFines:      fines,
		TotalUnpaidFines: total,
	}, nil
}

// DeleteMember removes a member with its loans and fines.
// Copies the member still had on loan go back to the shelf.
func (s *Store) DeleteMember(ctx context.Context, id int) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
		UPDATE books SET available_copies = MIN(total_copies, available_copies + (
			SELECT COUNT(*) FROM loans
			WHERE loans.book_id = books.id AND loans.member_id = ? AND loans.return_date IS NULL
		))
		WHERE id IN (SELECT book_id FROM loans WHERE member_id = ? AND return_date IS NULL)`
	if _, err := tx.ExecContext(ctx, stmt, id, id); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to restore copies")
	}

	result, err := tx.Delete("members").Where(goqu.C("id").Eq(id)).Executor().ExecContext(ctx)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete member")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Member deleted", zap.Int("member_id", id))
	return nil
}
