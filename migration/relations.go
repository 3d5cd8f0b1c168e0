package migration

import (
	"fmt"
	"strconv"
	"strings"

	"archiveserver/database"
)

// relationSpec описание одной таблицы связей: откуда и куда разрешаются
// прежние идентификаторы концов
type relationSpec struct {
	Table       string
	LeftKind    database.Kind
	RightKind   database.Kind
	LeftColumn  string
	RightColumn string
}

var (
	authorshipSpec = relationSpec{
		Table:       "document_authorship",
		LeftKind:    database.KindPerson,
		RightKind:   database.KindDocument,
		LeftColumn:  "person_id",
		RightColumn: "document_id",
	}
	membershipSpec = relationSpec{
		Table:       "organization_membership",
		LeftKind:    database.KindPerson,
		RightKind:   database.KindOrganization,
		LeftColumn:  "person_id",
		RightColumn: "organization_id",
	}
)

// RelationResult итог загрузки одной таблицы связей
type RelationResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

// parseEndpointID разбирает прежний идентификатор конца связи.
// Нечисловое значение — фатальная ошибка формата строки.
func parseEndpointID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("non-numeric id field %q", raw)
	}
	return id, nil
}

// loadRelationships загружает таблицу связей. Оба конца разрешаются через
// обратные ссылки oldid уже загруженной фазы сущностей; если хотя бы один
// конец не разрешился, строка пропускается и считается, а не падает.
// Дубликаты пар допустимы: от накопления между прогонами защищает Truncate.
func (p *Pipeline) loadRelationships(rows [][]string, spec relationSpec) (RelationResult, error) {
	result := RelationResult{Table: spec.Table}

	for i, row := range rows {
		leftOld, err := parseEndpointID(row[1])
		if err != nil {
			return result, fmt.Errorf("%s row %d: %w", spec.Table, i+1, err)
		}
		rightOld, err := parseEndpointID(row[2])
		if err != nil {
			return result, fmt.Errorf("%s row %d: %w", spec.Table, i+1, err)
		}

		leftID, leftOK, err := database.ResolveLegacyID(p.tx, spec.LeftKind, leftOld)
		if err != nil {
			return result, err
		}
		rightID, rightOK, err := database.ResolveLegacyID(p.tx, spec.RightKind, rightOld)
		if err != nil {
			return result, err
		}

		if !leftOK || !rightOK {
			result.Skipped++
			continue
		}

		if _, err := database.Insert(p.tx, spec.Table,
			[]string{spec.LeftColumn, spec.RightColumn},
			[]any{leftID, rightID}); err != nil {
			return result, fmt.Errorf("%s row %d: %w", spec.Table, i+1, err)
		}
		result.Inserted++
	}

	if result.Skipped > 0 {
		p.logf("%s: %d rows skipped (unresolvable legacy ids)", spec.Table, result.Skipped)
	}
	return result, nil
}
