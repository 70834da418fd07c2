package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CreateArray creates an array of n ints from 0 to n-1.
func CreateArray(n int) []int {
	if n < 0 {
		n = 0
	}
	arr := make([]int, n)
	for i := 0; i < n; i++ {
		arr[i] = i
	}
	return arr
}

// TitleCase upper cases the first letter of every word and leaves the rest
// alone, so "node load (%)" becomes "Node Load (%)".
func TitleCase(str string) string {
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(str)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a chart title into a file name stem: lower case words joined by
// dashes.
func Slug(str string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(str), "-")
	return strings.Trim(s, "-")
}
