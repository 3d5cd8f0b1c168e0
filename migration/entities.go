package migration

import (
	"fmt"
	"strings"

	"archiveserver/database"
	"archiveserver/normalization"
)

// progressInterval каждые сколько строк логировать прогресс загрузки
const progressInterval = 100

// nullable заменяет пустую строку явным NULL: целевая схема различает
// "пусто" и "отсутствует"
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// rewriteMediaURL переписывает относительные пути к файлам легаси-системы
// в абсолютные URL медиахоста: сами файлы в состав выгрузки не входят.
// Абсолютные URL проходят без изменений.
func rewriteMediaURL(raw, base string) string {
	if raw == "" || base == "" {
		return raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(raw, "/")
}

// loadSourceLookup читает справочник источников документов в память.
// Маленькая таблица, нужна только для подстановки текста источника в
// записи документов.
func loadSourceLookup(rows [][]string) map[int]string {
	lookup := make(map[int]string, len(rows))
	for _, row := range rows {
		lookup[rowID(row)] = row[1]
	}
	return lookup
}

// loadPersons загружает персоналии: нормализация имен, разбор дат с
// деградацией в комментарий, транслитерация отчества, перенос ссылки на
// фото на медиахост. Одна строка выгрузки — одна запись, без дедупликации.
func (p *Pipeline) loadPersons(rows [][]string) (int, error) {
	inserted := 0
	for i, row := range rows {
		comment := row[colPersonComment]

		patronymic := row[colPersonPatr]
		patronymicEn := normalization.Transliterate(patronymic)

		birthDate, birthOK, birthRaw := normalizeDateField(row[colPersonBirth])
		deathDate, deathOK, deathRaw := normalizeDateField(row[colPersonDeath])

		// Нечитаемая дата не теряется: помечаем и переносим в комментарий
		if !birthOK && birthRaw != "" {
			comment += "\nBirth date: " + birthRaw
		}
		if !deathOK && deathRaw != "" {
			comment += "\nDeath date: " + deathRaw
		}

		surname := row[colPersonSur]
		if surname == "" {
			// Фамилии нет в своей колонке — берем первый токен полного имени
			fields := strings.Fields(row[colPersonFull])
			if len(fields) > 0 {
				surname = fields[0]
			}
		}

		columns := []string{
			"oldid", "name", "surname", "patronymic",
			"name_en", "surname_en", "patronymic_en",
			"birth_date", "birth_place", "death_date", "death_place",
			"academic_degree", "field_of_study", "area_of_study",
			"biography", "bibliography", "photo", "comment",
		}
		values := []any{
			rowID(row),
			nullable(normalization.CleanName(row[colPersonName])),
			nullable(normalization.CleanName(surname)),
			nullable(patronymic),
			nullable(normalization.CleanName(row[colPersonNameEn])),
			nullable(normalization.CleanName(row[colPersonSurEn])),
			nullable(patronymicEn),
			birthDate,
			nullable(row[colPersonBirthPlace]),
			deathDate,
			nullable(row[colPersonDeathPlace]),
			nullable(row[colPersonDegree]),
			nullable(row[colPersonField]),
			nullable(row[colPersonArea]),
			nullable(normalization.CleanHTML(row[colPersonBio])),
			nullable(normalization.CleanHTML(row[colPersonBibl])),
			nullable(rewriteMediaURL(row[colPersonPhoto], p.opts.LegacyMediaBase)),
			nullable(comment),
		}

		if _, err := database.Insert(p.tx, "person", columns, values); err != nil {
			return inserted, fmt.Errorf("person row %d (oldid %d): %w", i+1, rowID(row), err)
		}
		inserted++

		if inserted%progressInterval == 0 {
			p.logf("Loaded %d/%d persons", inserted, len(rows))
		}
	}
	return inserted, nil
}

// loadOrganizations загружает организации
func (p *Pipeline) loadOrganizations(rows [][]string) (int, error) {
	inserted := 0
	for i, row := range rows {
		columns := []string{"oldid", "name", "org_type", "history", "comment"}
		values := []any{
			rowID(row),
			nullable(strings.TrimSpace(row[1])),
			nullable(row[2]),
			nullable(normalization.CleanHTML(row[3])),
			nullable(row[4]),
		}
		if _, err := database.Insert(p.tx, "organization", columns, values); err != nil {
			return inserted, fmt.Errorf("org row %d (oldid %d): %w", i+1, rowID(row), err)
		}
		inserted++

		if inserted%progressInterval == 0 {
			p.logf("Loaded %d/%d organizations", inserted, len(rows))
		}
	}
	return inserted, nil
}

// loadDocuments загружает документы, подставляя текст источника из
// справочника по его прежнему идентификатору
func (p *Pipeline) loadDocuments(rows [][]string, sources map[int]string) (int, error) {
	inserted := 0
	for i, row := range rows {
		var source string
		if sourceRef := strings.TrimSpace(row[4]); sourceRef != "" {
			id, err := parseEndpointID(sourceRef)
			if err != nil {
				return inserted, fmt.Errorf("pub row %d: bad source reference %q", i+1, row[4])
			}
			source = sources[id]
		}

		columns := []string{"oldid", "name", "doc_type", "language", "source", "year", "file", "comment"}
		values := []any{
			rowID(row),
			nullable(strings.TrimSpace(row[1])),
			nullable(row[2]),
			nullable(row[3]),
			nullable(source),
			nullable(strings.TrimSpace(row[5])),
			nullable(rewriteMediaURL(row[6], p.opts.LegacyMediaBase)),
			nullable(row[7]),
		}
		if _, err := database.Insert(p.tx, "document", columns, values); err != nil {
			return inserted, fmt.Errorf("pub row %d (oldid %d): %w", i+1, rowID(row), err)
		}
		inserted++

		if inserted%progressInterval == 0 {
			p.logf("Loaded %d/%d documents", inserted, len(rows))
		}
	}
	return inserted, nil
}

// normalizeDateField разбирает поле даты с учетом пустых значений:
// пустая строка — просто отсутствующая дата, не повод для комментария
func normalizeDateField(raw string) (any, bool, string) {
	if strings.TrimSpace(raw) == "" {
		return nil, true, ""
	}
	parsed, ok, fallback := NormalizeDate(raw)
	if !ok {
		return nil, false, fallback
	}
	return parsed.Format("2006-01-02"), true, ""
}
