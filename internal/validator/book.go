package validator

import (
	"context"
	"strconv"

	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/util"
)

// ValidateBookCreateRequest checks the add-book form and turns it into a BookCreate.
// A failed check returns FieldErrors naming every violated rule.
func ValidateBookCreateRequest(ctx context.Context, s *store.Store, form *model.BookForm) (*model.BookCreate, error) {
	trimForm(form)
	errs := validateForm(form)

	create := &model.BookCreate{
		Title:              form.Title,
		ISBN:               util.NormalizeISBN(form.ISBN),
		Publisher:          form.Publisher,
		PublishedDate:      form.PublishedDate,
		NewAuthorName:      form.NewAuthorName,
		NewAuthorBiography: form.NewAuthorBiography,
		NewCategoryNames:   util.SplitNames(form.NewCategories),
		CategoryIDs:        []int{},
	}

	switch {
	case form.Author == "" && form.NewAuthorName == "":
		errs.Add(NonFieldKey, "Please select an existing author or provide a new author name.")
	case form.Author != "" && form.NewAuthorName != "":
		errs.Add(NonFieldKey, "Please select either an existing author OR create a new one, not both.")
	case form.Author != "" && !errs.Has("author"):
		authorID, _ := strconv.Atoi(form.Author)
		author, err := s.GetAuthor(ctx, &model.FindAuthor{ID: &authorID})
		if err != nil {
			return nil, err
		}
		if author == nil {
			errs.Add("author", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			create.AuthorID = &author.ID
		}
	}

	if !errs.Has("total_copies") && !errs.Has("available_copies") {
		total, _ := strconv.Atoi(form.TotalCopies)
		available := total
		if form.AvailableCopies != "" {
			available, _ = strconv.Atoi(form.AvailableCopies)
		}
		switch {
		case total < 1:
			errs.Add("total_copies", "Ensure this value is greater than or equal to 1.")
		case available > total:
			errs.Add(NonFieldKey, "Available copies cannot exceed total copies.")
		}
		create.TotalCopies, create.AvailableCopies = total, available
	}

	if !errs.Has("isbn") {
		exists, err := s.BookExists(ctx, create.ISBN)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("isbn", "Book with this ISBN already exists.")
		}
	}

	if !errs.Has("category") && len(form.Categories) > 0 {
		seen := map[int]bool{}
		for _, value := range form.Categories {
			id, _ := strconv.Atoi(value)
			if !seen[id] {
				seen[id] = true
				create.CategoryIDs = append(create.CategoryIDs, id)
			}
		}
		count, err := s.CountCategories(ctx, create.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if count != len(create.CategoryIDs) {
			errs.Add("category", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	if err := errs.errOrNil(); err != nil {
		return nil, err
	}
	return create, nil
}
