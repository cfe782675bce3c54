package ui

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/validator"
)

const (
	bookFormTitle     = "Add New Book"
	bookHistoryLength = 10
)

func (h *Handler) showBookList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	find := &model.FindBook{CategoryID: request.QueryIntParam(r, "category")}
	query := request.QueryStringParam(r, "q", "")
	if query != "" {
		find.Query = &query
	}

	books, err := h.store.ListBooks(ctx, find)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	currentCategory := 0
	if find.CategoryID != nil {
		currentCategory = *find.CategoryID
	}
	h.render(w, r, "book_list", map[string]interface{}{
		"books":            books,
		"categories":       categories,
		"current_query":    query,
		"current_category": currentCategory,
	})
}

func (h *Handler) showBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := request.RouteStringParam(r, "slug")
	book, err := h.store.GetBook(ctx, &model.FindBook{Slug: &slug})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if book == nil {
		h.notFound(w, r)
		return
	}

	active := true
	activeLoans, err := h.store.ListLoans(ctx, &model.FindLoan{BookID: &book.ID, Active: &active, OrderBy: []string{"due_date"}})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	today := h.today()
	for _, loan := range activeLoans {
		loan.AnnotateOverdue(today)
	}

	limit := bookHistoryLength
	history, err := h.store.ListLoans(ctx, &model.FindLoan{BookID: &book.ID, OrderBy: []string{"-issue_date"}, Limit: &limit})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "book_detail", map[string]interface{}{
		"book":         book,
		"active_loans": activeLoans,
		"loan_history": history,
		"is_available": book.IsAvailable(),
	})
}

func (h *Handler) showBookForm(w http.ResponseWriter, r *http.Request) {
	h.renderBookForm(w, r, &model.BookForm{}, validator.FieldErrors{}, false)
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderBookForm(w, r, &model.BookForm{}, validator.FieldErrors{validator.NonFieldKey: "Invalid form submission."}, true)
		return
	}
	form := &model.BookForm{
		Title:              r.PostForm.Get("title"),
		Author:             r.PostForm.Get("author"),
		ISBN:               r.PostForm.Get("isbn"),
		Categories:         r.PostForm["category"],
		Publisher:          r.PostForm.Get("publisher"),
		PublishedDate:      r.PostForm.Get("published_date"),
		TotalCopies:        r.PostForm.Get("total_copies"),
		AvailableCopies:    r.PostForm.Get("available_copies"),
		NewAuthorName:      r.PostForm.Get("new_author_name"),
		NewAuthorBiography: r.PostForm.Get("new_author_biography"),
		NewCategories:      r.PostForm.Get("new_categories"),
	}

	create, err := validator.ValidateBookCreateRequest(ctx, h.store, form)
	if err != nil {
		if fieldErrs, ok := fieldErrors(err); ok {
			h.renderBookForm(w, r, form, fieldErrs, true)
			return
		}
		h.serverError(w, r, err)
		return
	}

	book, err := h.store.CreateBook(ctx, create)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			h.renderBookForm(w, r, form, validator.FieldErrors{"isbn": "Book with this ISBN already exists."}, true)
			return
		}
		h.serverError(w, r, err)
		return
	}

	log.Info("Book added", zap.Int("book_id", book.ID), zap.String("slug", book.Slug))
	response.Redirect(w, r, "/books/"+book.Slug+"/")
}

func (h *Handler) renderBookForm(w http.ResponseWriter, r *http.Request, form *model.BookForm, errs validator.FieldErrors, invalid bool) {
	ctx := r.Context()
	authors, err := h.store.ListAuthors(ctx, &model.FindAuthor{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"title":      bookFormTitle,
		"form":       form,
		"errors":     errs,
		"authors":    authors,
		"categories": categories,
	}
	if invalid {
		h.renderForm(w, r, "book_form", data)
		return
	}
	h.render(w, r, "book_form", data)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := request.RouteStringParam(r, "slug")
	book, err := h.store.GetBook(ctx, &model.FindBook{Slug: &slug})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if book == nil {
		h.notFound(w, r)
		return
	}

	if err := h.store.DeleteBook(ctx, book.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	response.Redirect(w, r, "/books/")
}
