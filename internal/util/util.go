package util

import (
	"strings"

	"github.com/google/uuid"
)

func GenUUID() string {
	return uuid.New().String()
}

// SplitNames splits a comma separated list, trimming every name and
// dropping the empty ones.
func SplitNames(src string) []string {
	names := make([]string, 0)
	for _, name := range strings.Split(src, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
