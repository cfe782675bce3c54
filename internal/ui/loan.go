package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/validator"
)

func (h *Handler) showLoanList(w http.ResponseWriter, r *http.Request) {
	loans, err := h.store.ListActiveLoans(r.Context(), h.today())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "loan_list", map[string]interface{}{"loans": loans})
}

func (h *Handler) showOverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.store.ListOverdueLoans(r.Context(), h.today())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "overdue_loans", map[string]interface{}{"loans": loans})
}

func (h *Handler) showLoanIssueForm(w http.ResponseWriter, r *http.Request) {
	form := &model.LoanForm{
		Book:   request.QueryStringParam(r, "book", ""),
		Member: request.QueryStringParam(r, "member", ""),
	}
	h.renderLoanIssueForm(w, r, form, validator.FieldErrors{}, false)
}

func (h *Handler) issueLoan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := &model.LoanForm{}
	if err := r.ParseForm(); err != nil {
		h.renderLoanIssueForm(w, r, form, validator.FieldErrors{validator.NonFieldKey: "Invalid form submission."}, true)
		return
	}
	form.Book = r.PostForm.Get("book")
	form.Member = r.PostForm.Get("member")
	form.DueDate = r.PostForm.Get("due_date")

	today := h.today()
	create, err := validator.ValidateLoanIssueRequest(ctx, h.store, form, today, h.loanPeriodDays)
	if err != nil {
		if fieldErrs, ok := fieldErrors(err); ok {
			h.renderLoanIssueForm(w, r, form, fieldErrs, true)
			return
		}
		h.serverError(w, r, err)
		return
	}

	loan, err := h.store.IssueLoan(ctx, create, today)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoCopiesAvailable):
			h.renderLoanIssueForm(w, r, form, validator.FieldErrors{"book": "No copies of this book are available."}, true)
		case errors.Is(err, store.ErrNotFound):
			h.renderLoanIssueForm(w, r, form, validator.FieldErrors{validator.NonFieldKey: "The book or the member no longer exists."}, true)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	log.Info("Loan issued", zap.Int("loan_id", loan.ID), zap.Int("book_id", loan.BookID), zap.Int("member_id", loan.MemberID))
	response.Redirect(w, r, "/loans/")
}

func (h *Handler) renderLoanIssueForm(w http.ResponseWriter, r *http.Request, form *model.LoanForm, errs validator.FieldErrors, invalid bool) {
	ctx := r.Context()
	books, err := h.store.ListBooks(ctx, &model.FindBook{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	available := make([]*model.Book, 0, len(books))
	for _, book := range books {
		if book.IsAvailable() {
			available = append(available, book)
		}
	}
	members, err := h.store.ListMembers(ctx, &model.FindMember{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	issued, _ := time.Parse(model.DateLayout, h.today())
	data := map[string]interface{}{
		"form":             form,
		"errors":           errs,
		"books":            available,
		"members":          members,
		"default_due_date": model.FormatDate(issued.AddDate(0, 0, h.loanPeriodDays)),
	}
	if invalid {
		h.renderForm(w, r, "loan_issue", data)
		return
	}
	h.render(w, r, "loan_issue", data)
}

func (h *Handler) showLoanReturnForm(w http.ResponseWriter, r *http.Request) {
	form := &model.LoanReturnForm{Loan: request.QueryStringParam(r, "loan", "")}
	h.renderLoanReturnForm(w, r, form, validator.FieldErrors{}, false)
}

func (h *Handler) returnLoan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := &model.LoanReturnForm{}
	if err := r.ParseForm(); err != nil {
		h.renderLoanReturnForm(w, r, form, validator.FieldErrors{validator.NonFieldKey: "Invalid form submission."}, true)
		return
	}
	form.Loan = r.PostForm.Get("loan")

	loanID, err := validator.ValidateLoanReturnRequest(ctx, h.store, form)
	if err != nil {
		if fieldErrs, ok := fieldErrors(err); ok {
			h.renderLoanReturnForm(w, r, form, fieldErrs, true)
			return
		}
		h.serverError(w, r, err)
		return
	}

	returned, err := h.store.ReturnLoan(ctx, loanID, h.today(), h.finePerDay)
	if err != nil {
		if errors.Is(err, store.ErrLoanReturned) || errors.Is(err, store.ErrNotFound) {
			h.renderLoanReturnForm(w, r, form, validator.FieldErrors{"loan": "This loan has already been returned."}, true)
			return
		}
		h.serverError(w, r, err)
		return
	}

	if returned.Fine != nil {
		log.Info("Late return fined", zap.Int("loan_id", loanID), zap.Int64("amount_cents", returned.Fine.AmountCents))
	}
	response.Redirect(w, r, "/members/"+strconv.Itoa(returned.Loan.MemberID)+"/")
}

func (h *Handler) renderLoanReturnForm(w http.ResponseWriter, r *http.Request, form *model.LoanReturnForm, errs validator.FieldErrors, invalid bool) {
	loans, err := h.store.ListActiveLoans(r.Context(), h.today())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"form":   form,
		"errors": errs,
		"loans":  loans,
	}
	if invalid {
		h.renderForm(w, r, "loan_return", data)
		return
	}
	h.render(w, r, "loan_return", data)
}
