package ui

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/validator"
)

func (h *Handler) showMemberList(w http.ResponseWriter, r *http.Request) {
	find := &model.FindMember{}
	query := request.QueryStringParam(r, "q", "")
	if query != "" {
		find.Query = &query
	}

	members, err := h.store.ListMembers(r.Context(), find)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "member_list", map[string]interface{}{
		"members":       members,
		"current_query": query,
	})
}

func (h *Handler) showMember(w http.ResponseWriter, r *http.Request) {
	detail, err := h.store.GetMemberDetail(r.Context(), request.RouteIntParam(r, "id"), h.today())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if detail == nil {
		h.notFound(w, r)
		return
	}

	h.render(w, r, "member_detail", map[string]interface{}{
		"member":             detail.Member,
		"active_loans":       detail.ActiveLoans,
		"loan_history":       detail.LoanHistory,
		"unpaid_fines":       detail.UnpaidFines,
		"total_unpaid_fines": detail.TotalUnpaidFines,
	})
}

func (h *Handler) showMemberForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "member_form", map[string]interface{}{
		"form":   &model.MemberForm{},
		"errors": validator.FieldErrors{},
	})
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := &model.MemberForm{}
	if err := r.ParseForm(); err != nil {
		h.renderMemberForm(w, r, form, validator.FieldErrors{validator.NonFieldKey: "Invalid form submission."})
		return
	}
	form.FirstName = r.PostForm.Get("first_name")
	form.LastName = r.PostForm.Get("last_name")
	form.Email = r.PostForm.Get("email")
	form.Phone = r.PostForm.Get("phone")
	form.Address = r.PostForm.Get("address")

	create, err := validator.ValidateMemberCreateRequest(ctx, h.store, form)
	if err != nil {
		if fieldErrs, ok := fieldErrors(err); ok {
			h.renderMemberForm(w, r, form, fieldErrs)
			return
		}
		h.serverError(w, r, err)
		return
	}

	member, err := h.store.CreateMember(ctx, create, h.today())
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			h.renderMemberForm(w, r, form, validator.FieldErrors{"email": "Member with this Email already exists."})
			return
		}
		h.serverError(w, r, err)
		return
	}

	log.Info("Member added", zap.Int("member_id", member.ID))
	response.Redirect(w, r, "/members/"+strconv.Itoa(member.ID)+"/")
}

func (h *Handler) renderMemberForm(w http.ResponseWriter, r *http.Request, form *model.MemberForm, errs validator.FieldErrors) {
	h.renderForm(w, r, "member_form", map[string]interface{}{
		"form":   form,
		"errors": errs,
	})
}
