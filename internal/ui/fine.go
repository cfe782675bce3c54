package ui

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/store"
)

func (h *Handler) payFine(w http.ResponseWriter, r *http.Request) {
	fine, err := h.store.PayFine(r.Context(), request.RouteIntParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	if fine == nil {
		h.notFound(w, r)
		return
	}
	response.Redirect(w, r, "/members/"+strconv.Itoa(fine.MemberID)+"/")
}
