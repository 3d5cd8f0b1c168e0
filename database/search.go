package database

import (
	"fmt"
	"strings"
)

// SearchTerm поисковый терм вместе с его вариантами (исходная форма,
// основа после стемминга). Запись попадает в выдачу, если хотя бы один
// вариант каждого терма встречается хотя бы в одной поисковой колонке.
type SearchTerm struct {
	Variants []string
}

// SearchParams параметры динамического поискового запроса
type SearchParams struct {
	Kind     Kind
	Terms    []SearchTerm
	YearFrom int
	YearTo   int
	Field    string // фильтр по области исследования (только для персоналий)
	Limit    int
}

// SearchResult одна строка поисковой выдачи
type SearchResult struct {
	Kind  string `json:"kind"`
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

const defaultSearchLimit = 100

// Search строит предикаты фильтрации по параметрам и выполняет запрос.
// Сопоставление термов не зависит от регистра, включая кириллицу.
// Для KindFieldOfStudy возвращает различные значения field_of_study.
func (c *CatalogDB) Search(p SearchParams) ([]SearchResult, error) {
	info, ok := kindTable[p.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown search kind %d", int(p.Kind))
	}

	limit := p.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	var (
		where []string
		args  []any
	)

	for _, term := range p.Terms {
		var ors []string
		for _, variant := range term.Variants {
			if variant == "" {
				continue
			}
			for _, col := range info.SearchCols {
				ors = append(ors, "ulower("+col+") LIKE ?")
				args = append(args, "%"+strings.ToLower(variant)+"%")
			}
		}
		if len(ors) > 0 {
			where = append(where, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if info.HasYear && p.YearFrom > 0 {
		where = append(where, "CAST(year AS INTEGER) >= ?")
		args = append(args, p.YearFrom)
	}
	if info.HasYear && p.YearTo > 0 {
		where = append(where, "CAST(year AS INTEGER) <= ?")
		args = append(args, p.YearTo)
	}
	if p.Kind == KindPerson && p.Field != "" {
		where = append(where, "ulower(field_of_study) LIKE ?")
		args = append(args, "%"+strings.ToLower(p.Field)+"%")
	}

	var query string
	if p.Kind == KindFieldOfStudy {
		query = "SELECT DISTINCT 0, field_of_study FROM person WHERE field_of_study IS NOT NULL"
		if len(where) > 0 {
			query += " AND " + strings.Join(where, " AND ")
		}
		query += " ORDER BY field_of_study"
	} else {
		query = fmt.Sprintf("SELECT id, %s FROM %s", info.TitleExpr, info.Table)
		if len(where) > 0 {
			query += " WHERE " + strings.Join(where, " AND ")
		}
		query += " ORDER BY id"
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search over %s failed: %w", info.Table, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		r := SearchResult{Kind: p.Kind.String()}
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
