package normalization

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	collapseSpacesRe = regexp.MustCompile(`[ \t]{2,}`)
	collapseLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// CleanHTML снимает шум, который оставляет экспорт из Word, с HTML-полей
// биографии и библиографии: вырезает script/style, разворачивает span и
// div без потери содержимого, убирает якорные <a name>, нормализует
// неразрывные пробелы и типографские тире.
//
// Если вход не похож на HTML, строка возвращается как есть.
func CleanHTML(raw string) string {
	if !strings.Contains(raw, "<") {
		return normalizeHTMLText(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return normalizeHTMLText(raw)
	}

	doc.Find("script, style").Remove()

	// span и div бывают вложенными по несколько уровней, поэтому
	// разворачиваем за несколько проходов
	for i := 0; i < 5; i++ {
		wrappers := doc.Find("span, div")
		if wrappers.Length() == 0 {
			break
		}
		wrappers.Each(func(_ int, s *goquery.Selection) {
			if inner, err := s.Html(); err == nil {
				s.ReplaceWithHtml(inner)
			}
		})
	}

	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		if inner, err := s.Html(); err == nil {
			s.ReplaceWithHtml(inner)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil || out == "" {
		return normalizeHTMLText(raw)
	}
	return normalizeHTMLText(out)
}

func normalizeHTMLText(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "</i><i>", "")
	s = strings.ReplaceAll(s, "</b><b>", "")
	s = collapseSpacesRe.ReplaceAllString(s, " ")
	s = collapseLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
