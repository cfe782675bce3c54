package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/model"
)

func TestGetOrCreateCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.GetOrCreateCategory(ctx, "Poetry")
	require.NoError(t, err)
	second, err := s.GetOrCreateCategory(ctx, "Poetry")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	category, err := s.GetCategory(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poetry", category.Name)

	missing, err := s.GetCategory(ctx, first.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := s.CountCategories(ctx, []int{first.ID, first.ID + 100})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListCategoriesAndAuthors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateBook(ctx, &model.BookCreate{
		Title: "Dune", ISBN: "0441013597", Publisher: "Ace", PublishedDate: "1965-08-01",
		TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert",
		NewCategoryNames: []string{"Sci-Fi", "Classics"},
	})
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, &model.BookCreate{
		Title: "Emma", ISBN: "0141439580", Publisher: "Penguin", PublishedDate: "1815-12-23",
		TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Jane Austen",
		NewCategoryNames: []string{"Classics"},
	})
	require.NoError(t, err)
	_, err = s.GetOrCreateCategory(ctx, "Atlases")
	require.NoError(t, err)
	_, err = s.GetOrCreateAuthor(ctx, "Anonymous", "")
	require.NoError(t, err)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	got := map[string]int{}
	names := []string{}
	for _, c := range categories {
		got[c.Name] = c.BookCount
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Atlases", "Classics", "Sci-Fi"}, names)
	assert.Equal(t, map[string]int{"Atlases": 0, "Classics": 2, "Sci-Fi": 1}, got)

	authors, err := s.ListAuthors(ctx, &model.FindAuthor{})
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Anonymous", authors[0].Name)
	assert.Equal(t, 0, authors[0].BookCount)
	assert.Equal(t, "Frank Herbert", authors[1].Name)
	assert.Equal(t, 1, authors[1].BookCount)
}

func TestDeleteCategoryKeepsBooks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book, err := s.CreateBook(ctx, &model.BookCreate{
		Title: "Dune", ISBN: "0441013597", Publisher: "Ace", PublishedDate: "1965-08-01",
		TotalCopies: 1, AvailableCopies: 1, NewAuthorName: "Frank Herbert",
		NewCategoryNames: []string{"Sci-Fi"},
	})
	require.NoError(t, err)
	require.Len(t, book.Categories, 1)

	require.NoError(t, s.DeleteCategory(ctx, book.Categories[0].ID))

	book, err = s.GetBook(ctx, &model.FindBook{ID: &book.ID})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Empty(t, book.Categories)
}

func TestDeleteAuthorCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	book := createBook(t, s, "Dune", "0441013597", "Frank Herbert", 1)
	require.NoError(t, s.DeleteAuthor(ctx, book.AuthorID))

	gone, err := s.GetBook(ctx, &model.FindBook{ID: &book.ID})
	require.NoError(t, err)
	assert.Nil(t, gone)
}
