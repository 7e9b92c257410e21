package usecase

import (
	"strings"
)

// DefaultStopWords are filler tokens that do not tell one grocery product
// from another: size and packaging words, quantifiers, prepositions.
var DefaultStopWords = []string{
	// Size descriptors
	"большие", "большой", "большая", "большое",
	"маленькие", "маленький", "маленькая", "маленькое",
	"крупные", "крупный", "крупная", "мелкие", "мелкий", "мелкая",
	"средние", "средний", "средняя",

	// Packaging terms
	"упаковка", "упак", "пачка", "пакет", "банка", "бутылка",
	"коробка", "лоток", "фасованные", "фасованный", "весовые", "весовой",

	// Units
	"шт", "кг", "г", "гр", "л", "мл",

	// Prepositions and conjunctions
	"и", "в", "с", "со", "на", "для", "по", "из", "без",
}

// TextNormalizer folds case and strips stop-words from product names
type TextNormalizer struct {
	stopWords map[string]bool
}

// NewTextNormalizer creates a normalizer for the given stop-word list.
// A nil list selects DefaultStopWords.
func NewTextNormalizer(stopWords []string) *TextNormalizer {
	if stopWords == nil {
		stopWords = DefaultStopWords
	}

	set := make(map[string]bool, len(stopWords))
	for _, word := range stopWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			set[word] = true
		}
	}

	return &TextNormalizer{stopWords: set}
}

// Normalize lower-cases text, drops stop-words and joins the remaining
// tokens with single spaces. The result is empty when nothing
// discriminating is left.
func (n *TextNormalizer) Normalize(text string) string {
	words := strings.Fields(strings.ToLower(text))

	kept := words[:0]
	for _, word := range words {
		if !n.stopWords[word] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}

// IsStopWord reports whether word would be dropped by Normalize.
func (n *TextNormalizer) IsStopWord(word string) bool {
	return n.stopWords[strings.ToLower(word)]
}

// ParseShoppingList splits a comma-separated list into trimmed, non-empty items.
func ParseShoppingList(s string) []string {
	return CleanShoppingList(strings.Split(s, ","))
}

// CleanShoppingList trims every item and drops blank ones. Duplicates are
// kept: each occurrence is matched independently.
func CleanShoppingList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
