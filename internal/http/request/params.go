package request // import "github.com/ihsan-khan/library-management-system/internal/http/request"

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// RouteIntParam returns an URL route parameter as int.
func RouteIntParam(r *http.Request, param string) int {
	vars := mux.Vars(r)
	value, err := strconv.Atoi(vars[param])
	if err != nil {
		return 0
	}

	if value < 0 {
		return 0
	}

	return value
}

// RouteStringParam returns a URL route parameter as string.
func RouteStringParam(r *http.Request, param string) string {
	vars := mux.Vars(r)
	return vars[param]
}

// QueryStringParam returns a trimmed query string parameter, or defaultValue when it is missing.
func QueryStringParam(r *http.Request, param, defaultValue string) string {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		value = defaultValue
	}
	return value
}

// QueryIntParam returns a query string parameter as int, or nil when it is missing or not a positive number.
func QueryIntParam(r *http.Request, param string) *int {
	value, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(param)))
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}
