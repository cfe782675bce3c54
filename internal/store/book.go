package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/util"
)

// bookRow is a book joined with its author.
type bookRow struct {
	model.Book
	AuthorName      string `db:"author_name"`
	AuthorBiography string `db:"author_biography"`
}

func bookColumns() []any {
	return []any{
		goqu.I("b.id"),
		goqu.I("b.title"),
		goqu.I("b.author_id"),
		goqu.I("b.isbn"),
		goqu.I("b.publisher"),
		goqu.I("b.published_date"),
		goqu.I("b.total_copies"),
		goqu.I("b.available_copies"),
		goqu.I("b.slug"),
	}
}

// bookQuery matches the title, the author name or the ISBN.
func bookQuery(query string) goqu.Expression {
	needle := strings.ToLower(strings.TrimSpace(query))
	conds := []goqu.Expression{
		casefoldContains("b.title", needle),
		casefoldContains("a.name", needle),
		casefoldContains("b.isbn", needle),
	}
	// ISBNs are stored without separators.
	if isbn := strings.ToLower(util.NormalizeISBN(needle)); isbn != "" && isbn != needle {
		conds = append(conds, casefoldContains("b.isbn", isbn))
	}
	return goqu.Or(conds...)
}

func (s *Store) GetBook(ctx context.Context, find *model.FindBook) (*model.Book, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.ListBooks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListBooks returns the matching books ordered by title with their author and categories loaded.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	ds := s.goqu.From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Select(append(bookColumns(),
			goqu.I("a.name").As("author_name"),
			goqu.I("a.biography").As("author_biography"),
		)...).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc())

	if v := find.ID; v != nil {
		ds = ds.Where(goqu.I("b.id").Eq(*v))
	}
	if v := find.Slug; v != nil {
		ds = ds.Where(goqu.I("b.slug").Eq(*v))
	}
	if v := find.ISBN; v != nil {
		ds = ds.Where(goqu.I("b.isbn").Eq(*v))
	}
	if v := find.AuthorID; v != nil {
		ds = ds.Where(goqu.I("b.author_id").Eq(*v))
	}
	if v := find.Query; v != nil && strings.TrimSpace(*v) != "" {
		ds = ds.Where(bookQuery(*v))
	}
	if v := find.CategoryID; v != nil {
		ds = ds.Where(goqu.I("b.id").In(
			s.goqu.From("book_category_link").Select("book_id").Where(goqu.C("category_id").Eq(*v)),
		))
	}
	if v := find.Limit; v != nil {
		ds = ds.Limit(uint(*v))
	}

	rows := make([]*bookRow, 0)
	if err := ds.ScanStructsContext(ctx, &rows); err != nil {
		log.Error("Failed to query books", zap.Error(err))
		return nil, errors.Wrap(err, "failed to list books")
	}

	list := make([]*model.Book, 0, len(rows))
	bookIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		book := row.Book
		book.Author = &model.Author{ID: book.AuthorID, Name: row.AuthorName, Biography: row.AuthorBiography}
		book.Categories = []*model.Category{}
		list = append(list, &book)
		bookIDs = append(bookIDs, book.ID)
	}

	categories, err := s.listBookCategories(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for _, book := range list {
		if c, ok := categories[book.ID]; ok {
			book.Categories = c
		}
	}
	return list, nil
}

// BookExists reports whether a book with isbn is stored.
func (s *Store) BookExists(ctx context.Context, isbn string) (bool, error) {
	count, err := s.goqu.From("books").Where(goqu.C("isbn").Eq(isbn)).CountContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to check isbn")
	}
	return count > 0, nil
}

// CreateBook stores a validated book in a single transaction: the author and the
// new categories are resolved with get-or-create, the slug is made unique and
// the category links are written. Nothing is written when any step fails.
func (s *Store) CreateBook(ctx context.Context, create *model.BookCreate) (*model.Book, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.goqu.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	bookID, err := createBook(ctx, tx, create)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit book")
	}

	log.Info("Book created", zap.Int("book_id", bookID), zap.String("title", create.Title))
	return s.GetBook(ctx, &model.FindBook{ID: &bookID})
}

func createBook(ctx context.Context, tx *goqu.TxDatabase, create *model.BookCreate) (int, error) {
	var authorID int
	if create.AuthorID != nil {
		authorID = *create.AuthorID
	} else {
		author, err := getOrCreateAuthor(ctx, tx, create.NewAuthorName, create.NewAuthorBiography)
		if err != nil {
			return 0, err
		}
		authorID = author.ID
	}

	slug, err := uniqueSlug(ctx, tx, util.Slugify(create.Title))
	if err != nil {
		return 0, err
	}

	result, err := tx.Insert("books").Rows(goqu.Record{
		"title":            create.Title,
		"author_id":        authorID,
		"isbn":             create.ISBN,
		"publisher":        create.Publisher,
		"published_date":   create.PublishedDate,
		"total_copies":     create.TotalCopies,
		"available_copies": create.AvailableCopies,
		"slug":             slug,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, wrapWriteErr(err, "failed to insert book")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	bookID := int(id)

	categoryIDs := make([]int, 0, len(create.CategoryIDs)+len(create.NewCategoryNames))
	categoryIDs = append(categoryIDs, create.CategoryIDs...)
	for _, name := range create.NewCategoryNames {
		category, err := getOrCreateCategory(ctx, tx, name)
		if err != nil {
			return 0, err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	seen := make(map[int]bool, len(categoryIDs))
	links := make([]any, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true
		links = append(links, goqu.Record{"book_id": bookID, "category_id": categoryID})
	}
	if len(links) > 0 {
		if _, err := tx.Insert("book_category_link").Rows(links...).Executor().ExecContext(ctx); err != nil {
			return 0, errors.Wrap(err, "failed to link categories")
		}
	}

	return bookID, nil
}

// reservedSlugs collide with fixed routes under /books/.
var reservedSlugs = map[string]bool{
	"add": true,
}

// uniqueSlug returns base, or base followed by the first free "-N" suffix.
func uniqueSlug(ctx context.Context, tx *goqu.TxDatabase, base string) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		if !reservedSlugs[slug] {
			count, err := tx.From("books").Where(goqu.C("slug").Eq(slug)).CountContext(ctx)
			if err != nil {
				return "", errors.Wrap(err, "failed to check slug")
			}
			if count == 0 {
				return slug, nil
			}
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// DeleteBook removes a book, its loans and their fines.
func (s *Store) DeleteBook(ctx context.Context, id int) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	result, err := s.goqu.Delete("books").Where(goqu.C("id").Eq(id)).Executor().ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete book")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	log.Info("Book deleted", zap.Int("book_id", id))
	return nil
}
