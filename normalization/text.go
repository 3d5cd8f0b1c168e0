package normalization

import (
	"strings"
	"unicode"
)

// CleanName очищает свободнотекстовое поле имени из легаси-выгрузки:
// убирает квадратные и круглые скобки (содержимое остается), оставляет
// только буквы, пробелы и дефисы, схлопывает пробелы и обрезает края.
// Операция идемпотентна.
func CleanName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r == '[' || r == ']' || r == '(' || r == ')':
			// сами скобки выбрасываем, их содержимое остается
		case unicode.IsLetter(r) || unicode.IsSpace(r) || r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
