package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
)

// ListCategories returns every category ordered by name, each with its book count.
func (s *Store) ListCategories(ctx context.Context) ([]*model.Category, error) {
	list := make([]*model.Category, 0)
	err := s.goqu.From(goqu.T("categories").As("c")).
		LeftJoin(goqu.T("book_category_link").As("l"), goqu.On(goqu.I("l.category_id").Eq(goqu.I("c.id")))).
		Select(
			goqu.I("c.id"),
			goqu.I("c.name"),
			goqu.COUNT(goqu.I("l.book_id")).As("book_count"),
		).
		GroupBy(goqu.I("c.id")).
		Order(goqu.I("c.name").Asc()).
		ScanStructsContext(ctx, &list)
	if err != nil {
		log.Error("Failed to query categories", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return list, nil
}

// GetCategory returns nil when the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	category := model.Category{}
	found, err := s.goqu.From("categories").
		Select("id", "name").
		Where(goqu.C("id").Eq(id)).
		ScanStructContext(ctx, &category)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get category")
	}
	if !found {
		return nil, nil
	}
	return &category, nil
}

// CountCategories returns how many of ids name an existing category.
func (s *Store) CountCategories(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	count, err := s.goqu.From("categories").Where(goqu.C("id").In(ids)).CountContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count categories")
	}
	return int(count), nil
}

// GetOrCreateCategory returns the category called name, creating it when absent.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	category, err := getOrCreateCategory(ctx, tx, name)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return category, nil
}

func getOrCreateCategory(ctx context.Context, tx *goqu.TxDatabase, name string) (*model.Category, error) {
	category := model.Category{}
	found, err := tx.From("categories").
		Select("id", "name").
		Where(goqu.C("name").Eq(name)).
		ScanStructContext(ctx, &category)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find category")
	}
	if found {
		return &category, nil
	}

	result, err := tx.Insert("categories").
		Rows(goqu.Record{"name": name}).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, wrapWriteErr(err, "failed to create category")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: int(id), Name: name}, nil
}

// DeleteCategory removes a category. Its books stay, only the links go.
func (s *Store) DeleteCategory(ctx context.Context, id int) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	if _, err := s.goqu.Delete("categories").Where(goqu.C("id").Eq(id)).Executor().ExecContext(ctx); err != nil {
		return errors.Wrap(err, "failed to delete category")
	}
	return nil
}

// listBookCategories maps book ids to their categories ordered by name.
func (s *Store) listBookCategories(ctx context.Context, bookIDs []int) (map[int][]*model.Category, error) {
	result := make(map[int][]*model.Category)
	if len(bookIDs) == 0 {
		return result, nil
	}

	type bookCategory struct {
		BookID int    `db:"book_id"`
		ID     int    `db:"id"`
		Name   string `db:"name"`
	}
	rows := make([]bookCategory, 0)
	err := s.goqu.From(goqu.T("book_category_link").As("l")).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.category_id")))).
		Select(goqu.I("l.book_id"), goqu.I("c.id"), goqu.I("c.name")).
		Where(goqu.I("l.book_id").In(bookIDs)).
		Order(goqu.I("c.name").Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list book categories")
	}

	for _, row := range rows {
		result[row.BookID] = append(result[row.BookID], &model.Category{ID: row.ID, Name: row.Name})
	}
	return result, nil
}
