package util

import "strings"

var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// NormalizeISBN strips the hyphens and spaces of an ISBN and upper-cases
// the X check character.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(isbnSeparators.Replace(strings.TrimSpace(isbn)))
}

// IsISBNShape reports whether a normalized ISBN has 10 or 13 digits,
// or 9 digits followed by an X check character.
func IsISBNShape(isbn string) bool {
	switch len(isbn) {
	case 13:
		return isDigits(isbn)
	case 10:
		last := isbn[9]
		return isDigits(isbn[:9]) && (isDigit(last) || last == 'X' || last == 'x')
	default:
		return false
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
