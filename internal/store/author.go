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

func (s *Store) GetAuthor(ctx context.Context, find *model.FindAuthor) (*model.Author, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.ListAuthors(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListAuthors returns the matching authors ordered by name, each with its book count.
func (s *Store) ListAuthors(ctx context.Context, find *model.FindAuthor) ([]*model.Author, error) {
	ds := s.goqu.From(goqu.T("authors").As("a")).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.author_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("a.id"),
			goqu.I("a.name"),
			goqu.I("a.biography"),
			goqu.COUNT(goqu.I("b.id")).As("book_count"),
		).
		GroupBy(goqu.I("a.id")).
		Order(goqu.I("a.name").Asc(), goqu.I("a.id").Asc())

	if v := find.ID; v != nil {
		ds = ds.Where(goqu.I("a.id").Eq(*v))
	}
	if v := find.Name; v != nil {
		ds = ds.Where(goqu.I("a.name").Eq(*v))
	}
	if v := find.Query; v != nil {
		ds = ds.Where(casefoldContains("a.name", strings.ToLower(*v)))
	}
	if v := find.Limit; v != nil {
		ds = ds.Limit(uint(*v))
	}

	list := make([]*model.Author, 0)
	if err := ds.ScanStructsContext(ctx, &list); err != nil {
		log.Error("Failed to query authors", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list authors")
	}
	return list, nil
}

// GetOrCreateAuthor returns the author named exactly name, creating it with
// biography when there is none.
func (s *Store) GetOrCreateAuthor(ctx context.Context, name, biography string) (*model.Author, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	author, err := getOrCreateAuthor(ctx, tx, name, biography)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return author, nil
}

func getOrCreateAuthor(ctx context.Context, tx *goqu.TxDatabase, name, biography string) (*model.Author, error) {
	author := model.Author{}
	found, err := tx.From("authors").
		Select("id", "name", "biography").
		Where(goqu.C("name").Eq(name)).
		Order(goqu.C("id").Asc()).
		ScanStructContext(ctx, &author)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find author")
	}
	if found {
		return &author, nil
	}

	result, err := tx.Insert("authors").
		Rows(goqu.Record{"name": name, "biography": biography}).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, wrapWriteErr(err, "failed to create author")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	log.Debug("Author created", zap.Int64("author_id", id), zap.String("name", name))
	return &model.Author{ID: int(id), Name: name, Biography: biography}, nil
}

// DeleteAuthor removes an author together with its books.
func (s *Store) DeleteAuthor(ctx context.Context, id int) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	if _, err := s.goqu.Delete("authors").Where(goqu.C("id").Eq(id)).Executor().ExecContext(ctx); err != nil {
		return errors.Wrap(err, "failed to delete author")
	}
	return nil
}
