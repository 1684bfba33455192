package utils

import "strings"

// NormalizeTopicName trims the input and title-cases every space separated
// word: first letter upper, the rest lower. Repeated inner spaces are kept.
func NormalizeTopicName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	words := strings.Split(strings.ToLower(trimmed), " ")
	for i, word := range words {
		words[i] = capitalizeFirst(word)
	}
	return strings.Join(words, " ")
}
