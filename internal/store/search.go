package store

import (
	"context"
	"strings"

	"github.com/ihsan-khan/library-management-system/internal/model"
)

// SearchLimit caps each kind of result of a global search.
const SearchLimit = 10

// Search looks the query up in books, members and authors independently.
// A blank query matches nothing.
func (s *Store) Search(ctx context.Context, query string) (*model.SearchResults, error) {
	results := &model.SearchResults{
		Books:   []*model.Book{},
		Members: []*model.Member{},
		Authors: []*model.Author{},
	}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	limit := SearchLimit
	books, err := s.ListBooks(ctx, &model.FindBook{Query: &query, Limit: &limit})
	if err != nil {
		return nil, err
	}
	results.Books = books

	members, err := s.ListMembers(ctx, &model.FindMember{Query: &query, Limit: &limit})
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		results.Members = append(results.Members, &member.Member)
	}

	authors, err := s.ListAuthors(ctx, &model.FindAuthor{Query: &query, Limit: &limit})
	if err != nil {
		return nil, err
	}
	results.Authors = authors

	return results, nil
}
