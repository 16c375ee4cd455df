package service

import (
	"strings"
	"unicode"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

// ExtractCategory finds a "#word" marker in an already lowercased message and
// returns the word. The word ends at the first whitespace.
func ExtractCategory(message string) (string, bool) {
	_, after, found := strings.Cut(message, "#")
	if !found {
		return "", false
	}
	if i := strings.IndexFunc(after, unicode.IsSpace); i >= 0 {
		after = after[:i]
	}
	if after == "" {
		return "", false
	}
	return after, true
}

// FilterVideosByCategory keeps the catalog rows whose category matches
// case-insensitively, in their original order.
func FilterVideosByCategory(items []domain.KnowledgeItem, category string) []domain.KnowledgeItem {
	var matches []domain.KnowledgeItem
	for _, item := range items {
		if item.IsVideo() && strings.EqualFold(item.Category, category) {
			matches = append(matches, item)
		}
	}
	return matches
}

// FormatCategoryListing renders the canned answer for a category marker.
func FormatCategoryListing(category string, videos []domain.KnowledgeItem) string {
	lines := make([]string, len(videos))
	for i, v := range videos {
		lines[i] = "- " + v.Title + " [portfolio=" + v.VimeoID + "]"
	}
	return "Aqui estão os vídeos da categoria " + category + ":\n\n" + strings.Join(lines, "\n")
}
