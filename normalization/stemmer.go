package normalization

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// StemRussian возвращает основу слова по алгоритму Snowball.
// Пример: "геологии" -> "геолог". Слова, которые стеммер не принимает,
// возвращаются в нижнем регистре без изменений.
func StemRussian(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	stemmed, err := snowball.Stem(normalized, "russian", true)
	if err != nil {
		return normalized
	}
	return stemmed
}

// QueryVariants разбивает поисковую строку на термы и для каждого
// возвращает варианты сопоставления: исходную форму в нижнем регистре
// и основу после стемминга (если она отличается).
func QueryVariants(query string) [][]string {
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	var terms [][]string
	for _, token := range tokens {
		lower := strings.ToLower(token)
		variants := []string{lower}
		if stem := StemRussian(lower); stem != "" && stem != lower {
			variants = append(variants, stem)
		}
		terms = append(terms, variants)
	}
	return terms
}
