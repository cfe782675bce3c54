package template // import "github.com/ihsan-khan/library-management-system/internal/template"

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/ihsan-khan/library-management-system/internal/model"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatCents":   formatCents,
		"join":          strings.Join,
		"add":           func(a, b int) int { return a + b },
		"categoryNames": categoryNames,
		"selected":      selected,
		"deref":         deref,
	}
}

// formatCents renders an amount of cents as dollars, e.g. 125 is "$1.25".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func categoryNames(categories []*model.Category) string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return strings.Join(names, ", ")
}

// selected reports whether id is one of the submitted values.
func selected(values []string, id int) bool {
	want := strconv.Itoa(id)
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
