package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName lowercases and trims a company name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Make derives a company slug: lowercase with every non [a-z0-9] character removed
func Make(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}
