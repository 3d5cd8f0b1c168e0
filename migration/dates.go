package migration

import (
	"regexp"
	"time"
)

// dateExceptions ручная таблица известных нечитаемых строк дат из
// легаси-выгрузки: опечатки, переставленные день/месяц, артефакты OCR.
// Ключи сохраняют исходные хвостовые пробелы. Таблица имеет абсолютный
// приоритет над шаблонами.
var dateExceptions = map[string]string{
	"1968, 31января ":      "1968-01-31",
	"25, ноябрь 1927":      "1927-11-25",
	"1896, 19 февр.":       "1896-02-19",
	"1934. 29 июля":        "1934-07-29",
	"1948, 28 янв.":        "1948-01-28",
	"1939, 2 апреля.":      "1939-04-02",
	"19 ноября 1883 г.":    "1883-11-19",
	"1941, 16.июля":        "1941-07-16",
	"13 сентября 1909":     "1909-09-13",
	"1883 г  3 апреля":     "1883-04-03",
	"1903 г. 26 декабря":   "1903-12-26",
	"1959 25 июня":         "1959-06-25",
	"1915 26 июля":         "1915-07-26",
	"1940, 17 феврал":      "1940-02-17",
	"29 июня 1976":         "1976-06-29",
	"1947 , 7 марта":       "1947-03-07",
	"1948 3, мая":          "1948-05-03",
	"1969, 1 мая.":         "1969-05-01",
	"1956 11, сентября":    "1956-09-11",
	"10, марта 2013":       "2013-03-10",
	"2017. 25 июня":        "2017-06-25",
	"19 февраля 1956 г.":   "1956-02-19",
	"14 мая 2006":          "2006-05-14",
	"17 февраля 2005":      "2005-02-17",
	"2004 , 20 августа ":   "2004-08-20",
	"1990, 23 августа 199": "1990-08-23",
	"2005. 15 февраля":     "2005-02-15",
}

// russianMonths подстановка русских названий месяцев английскими:
// родительный и именительный падежи плюс искаженные формы, встречающиеся
// в выгрузке. Порядок альтернатив в monthAlternation повторяет порядок
// ключей, чтобы "июня" совпадал раньше усеченного "июн".
var russianMonths = map[string]string{
	"января": "January", "февраля": "February", "марта": "March", "апреля": "April",
	"мая": "May", "июня": "June", "июля": "July", "августа": "August",
	"сентября": "September", "октября": "October", "ноября": "November", "декабря": "December",
	"январь": "January", "февраль": "February", "март": "March", "апрель": "April",
	"май": "May", "июнь": "June", "июль": "July", "август": "August",
	"сентябрь": "September", "октябрь": "October", "ноябрь": "November", "декабрь": "December",
	"дкабря": "December", "нояб.": "November", "агуста": "August", "июн": "June",
}

const monthAlternation = `января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря|` +
	`январь|февраль|март|апрель|май|июнь|июль|август|сентябрь|октябрь|ноябрь|декабрь|` +
	`дкабря|нояб\.|агуста|июн`

// datePattern пара из регулярного выражения и шаблона даты. build
// собирает каноническую строку для разбора по layout из групп совпадения
// (после подстановки английского названия месяца).
type datePattern struct {
	re     *regexp.Regexp
	layout string
	build  func(m []string) string
}

// datePatterns упорядоченный список шаблонов дат легаси-выгрузки.
// Каждый совпавший по форме шаблон пробуется на разбор; выигрывает
// первый, который разобрался. Шаблон, совпавший по форме, но давший
// некорректную календарную дату, не блокирует следующие.
var datePatterns = []datePattern{
	{
		// "1934, 29 июля"
		re:     regexp.MustCompile(`^\s*(\d{4})\s*,\s*(\d{1,2})\s*(` + monthAlternation + `)\s*$`),
		layout: "2006 2 January",
		build:  func(m []string) string { return m[1] + " " + m[2] + " " + russianMonths[m[3]] },
	},
	{
		// ISO "1934-07-29", день и месяц допускают одну цифру
		re:     regexp.MustCompile(`^\s*(\d{4})-(\d{1,2})-(\d{1,2})\s*$`),
		layout: "2006-1-2",
		build:  func(m []string) string { return m[1] + "-" + m[2] + "-" + m[3] },
	},
	{
		// "1934 г., 29 июля"
		re:     regexp.MustCompile(`^\s*(\d{4})\s*г\.\s*,\s*(\d{1,2})\s*(` + monthAlternation + `)\s*$`),
		layout: "2006 2 January",
		build:  func(m []string) string { return m[1] + " " + m[2] + " " + russianMonths[m[3]] },
	},
	{
		// "29 апр. 1934"
		re:     regexp.MustCompile(`^\s*(\d{1,2})\s*апр\.\s*(\d{4})\s*$`),
		layout: "2 January 2006",
		build:  func(m []string) string { return m[1] + " April " + m[2] },
	},
	{
		// "1934. 29 мая"
		re:     regexp.MustCompile(`^\s*(\d{4})\.\s*(\d{1,2})\s*мая\s*$`),
		layout: "2006 2 January",
		build:  func(m []string) string { return m[1] + " " + m[2] + " May" },
	},
	{
		// "29-07-1934"
		re:     regexp.MustCompile(`^\s*(\d{1,2})-(\d{1,2})-(\d{4})\s*$`),
		layout: "2-1-2006",
		build:  func(m []string) string { return m[1] + "-" + m[2] + "-" + m[3] },
	},
}

// NormalizeDate приводит разнородную текстовую дату к структурной.
// Возвращает либо дату (ok == true), либо исходную строку fallback для
// сохранения в свободнотекстовом комментарии. Никогда не возвращает
// ошибку: нечитаемая дата — не ошибка, а деградация в свободный текст.
func NormalizeDate(raw string) (parsed time.Time, ok bool, fallback string) {
	if iso, found := dateExceptions[raw]; found {
		if t, err := time.Parse("2006-01-02", iso); err == nil {
			return t, true, ""
		}
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		if t, err := time.Parse(p.layout, p.build(m)); err == nil {
			return t, true, ""
		}
	}

	return time.Time{}, false, raw
}
