package normalization

import "strings"

// translitTable обратимая схема транслитерации кириллицы в латиницу.
// Многобуквенные соответствия (ж→zh, щ→shch) делают отображение
// восстановимым без потери различимости.
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "\"", 'ы': "y", 'ь': "'",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate переводит кириллический текст в латинскую запись.
// Некириллические символы проходят без изменений. Заглавные буквы
// дают соответствие с заглавной первой буквой (Ж → Zh).
func Transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		lower := unicodeToLower(r)
		mapped, ok := translitTable[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r && mapped != "" {
			// исходная буква была заглавной
			b.WriteString(strings.ToUpper(mapped[:1]) + mapped[1:])
			continue
		}
		b.WriteString(mapped)
	}

	return b.String()
}

func unicodeToLower(r rune) rune {
	if r >= 'А' && r <= 'Я' {
		return r + ('а' - 'А')
	}
	if r == 'Ё' {
		return 'ё'
	}
	return r
}
