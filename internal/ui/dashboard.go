package ui

import "net/http"

// dashboardListSize is the length of the recent and popular lists.
const dashboardListSize = 5

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	metrics, err := h.store.GetDashboardMetrics(ctx, h.today())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	recentLoans, err := h.store.ListRecentLoans(ctx, dashboardListSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	recentReturns, err := h.store.ListRecentReturns(ctx, dashboardListSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	popularBooks, err := h.store.ListPopularBooks(ctx, dashboardListSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "dashboard", map[string]interface{}{
		"metrics":        metrics,
		"recent_loans":   recentLoans,
		"recent_returns": recentReturns,
		"popular_books":  popularBooks,
	})
}
