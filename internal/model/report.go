package model

// DashboardMetrics are the counters shown on the dashboard.
type DashboardMetrics struct {
	TotalBooks   int `json:"total_books"`
	TotalMembers int `json:"total_members"`
	ActiveLoans  int `json:"active_loans"`
	OverdueLoans int `json:"overdue_loans"`
}

// SearchResults holds the capped matches of a global search.
type SearchResults struct {
	Books   []*Book   `json:"books"`
	Members []*Member `json:"members"`
	Authors []*Author `json:"authors"`
}

// Empty reports whether nothing matched.
func (r *SearchResults) Empty() bool {
	return len(r.Books) == 0 && len(r.Members) == 0 && len(r.Authors) == 0
}
