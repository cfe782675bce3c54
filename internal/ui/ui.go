package ui

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ihsan-khan/library-management-system/internal/config"
	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/middleware"
	"github.com/ihsan-khan/library-management-system/internal/model"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/template"
	"github.com/ihsan-khan/library-management-system/internal/validator"
)

// Handler serves the HTML pages.
type Handler struct {
	store     *store.Store
	templates *template.Engine
	// now is the clock "today" is read from.
	now            func() time.Time
	loanPeriodDays int
	finePerDay     int64
}

// NewHandler is a constructor for the ui.Handler
func NewHandler(store *store.Store, templates *template.Engine, opts *config.Options) *Handler {
	return &Handler{
		store:          store,
		templates:      templates,
		now:            time.Now,
		loanPeriodDays: opts.LoanPeriodDays,
		finePerDay:     opts.FinePerDay,
	}
}

// Serve registers the page routes on router.
func Serve(router *mux.Router, handler *Handler) {
	middleware := middleware.NewMiddleware(handler.templates)
	router.Use(middleware.HandleRequestContext)
	router.Use(middleware.LoggingRequest)
	router.Use(middleware.Recover)
	// Router middleware does not run for unmatched routes.
	router.NotFoundHandler = middleware.HandleRequestContext(middleware.LoggingRequest(middleware.Recover(http.HandlerFunc(handler.notFound))))

	router.Handle("/", http.RedirectHandler("/dashboard/", http.StatusFound)).Methods(http.MethodGet).Name("index")
	router.HandleFunc("/dashboard/", handler.showDashboard).Methods(http.MethodGet).Name("dashboard")

	router.HandleFunc("/books/", handler.showBookList).Methods(http.MethodGet).Name("book_list")
	// Registered before the slug route. Book slugs never take the reserved "add".
	router.HandleFunc("/books/add/", handler.showBookForm).Methods(http.MethodGet).Name("book_add")
	router.HandleFunc("/books/add/", handler.addBook).Methods(http.MethodPost)
	router.HandleFunc("/books/{slug:[-\\w]+}/", handler.showBook).Methods(http.MethodGet).Name("book_detail")
	router.HandleFunc("/books/{slug:[-\\w]+}/delete/", handler.deleteBook).Methods(http.MethodPost).Name("book_delete")

	router.HandleFunc("/members/", handler.showMemberList).Methods(http.MethodGet).Name("member_list")
	router.HandleFunc("/members/add/", handler.showMemberForm).Methods(http.MethodGet).Name("member_add")
	router.HandleFunc("/members/add/", handler.addMember).Methods(http.MethodPost)
	router.HandleFunc("/members/{id:[0-9]+}/", handler.showMember).Methods(http.MethodGet).Name("member_detail")

	router.HandleFunc("/loans/", handler.showLoanList).Methods(http.MethodGet).Name("loan_list")
	router.HandleFunc("/loans/overdue/", handler.showOverdueLoans).Methods(http.MethodGet).Name("overdue_loans")
	router.HandleFunc("/loans/issue/", handler.showLoanIssueForm).Methods(http.MethodGet).Name("loan_issue")
	router.HandleFunc("/loans/issue/", handler.issueLoan).Methods(http.MethodPost)
	router.HandleFunc("/loans/return/", handler.showLoanReturnForm).Methods(http.MethodGet).Name("loan_return")
	router.HandleFunc("/loans/return/", handler.returnLoan).Methods(http.MethodPost)

	router.HandleFunc("/fines/{id:[0-9]+}/pay/", handler.payFine).Methods(http.MethodPost).Name("fine_pay")

	router.HandleFunc("/authors/", handler.showAuthorList).Methods(http.MethodGet).Name("author_list")
	router.HandleFunc("/categories/", handler.showCategoryList).Methods(http.MethodGet).Name("category_list")
	router.HandleFunc("/search/", handler.showSearchResults).Methods(http.MethodGet).Name("search")
}

// today is the request date every time-sensitive query is made against.
func (h *Handler) today() string {
	return model.FormatDate(h.now())
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]interface{}) {
	body, err := h.templates.Render(page, data)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	response.OK(w, r, body)
}

// renderForm re-presents a form page with its errors.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page string, data map[string]interface{}) {
	body, err := h.templates.Render(page, data)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	response.BadRequest(w, r, body)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	body, _ := h.templates.Render("not_found", map[string]interface{}{})
	response.NotFound(w, r, body)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	body, _ := h.templates.Render("error", map[string]interface{}{"request_id": request.RequestID(r)})
	response.ServerError(w, r, err, body)
}

// fieldErrors extracts validation errors from err.
func fieldErrors(err error) (validator.FieldErrors, bool) {
	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}
	return nil, false
}
