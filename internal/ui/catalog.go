package ui

import (
	"net/http"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/model"
)

func (h *Handler) showAuthorList(w http.ResponseWriter, r *http.Request) {
	authors, err := h.store.ListAuthors(r.Context(), &model.FindAuthor{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "author_list", map[string]interface{}{"authors": authors})
}

func (h *Handler) showCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "category_list", map[string]interface{}{"categories": categories})
}

// showSearchResults searches books, members and authors at once.
// An empty query renders empty results.
func (h *Handler) showSearchResults(w http.ResponseWriter, r *http.Request) {
	query := request.QueryStringParam(r, "q", "")
	results, err := h.store.Search(r.Context(), query)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "search_results", map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
