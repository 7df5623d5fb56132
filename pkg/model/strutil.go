package model

import "strings"

func strEqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

func strContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToUpper(haystack), strings.ToUpper(needle))
}
