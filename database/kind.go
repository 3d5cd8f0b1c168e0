package database

import "fmt"

// Kind закрытый тип сущностей каталога. Используется вместо строковых
// ключей при диспетчеризации по таблицам.
type Kind int

const (
	KindPerson Kind = iota
	KindOrganization
	KindDocument
	KindFieldOfStudy
)

// kindInfo метаданные таблицы для одного вида сущностей
type kindInfo struct {
	Table       string
	TitleExpr   string   // SQL-выражение для заголовка записи в выдаче поиска
	SearchCols  []string // колонки, по которым работает полнотекстовый фильтр
	HasYear     bool
	HasLegacyID bool
}

// kindTable единая таблица диспетчеризации, строится один раз.
// KindFieldOfStudy не имеет собственной таблицы: это срез по колонке
// field_of_study таблицы person.
var kindTable = map[Kind]kindInfo{
	KindPerson: {
		Table:       "person",
		TitleExpr:   "TRIM(surname || ' ' || name || ' ' || COALESCE(patronymic, ''))",
		SearchCols:  []string{"name", "surname", "patronymic", "name_en", "surname_en", "field_of_study", "area_of_study", "biography", "bibliography"},
		HasLegacyID: true,
	},
	KindOrganization: {
		Table:       "organization",
		TitleExpr:   "name",
		SearchCols:  []string{"name", "org_type", "history"},
		HasLegacyID: true,
	},
	KindDocument: {
		Table:       "document",
		TitleExpr:   "name",
		SearchCols:  []string{"name", "doc_type", "language", "source"},
		HasYear:     true,
		HasLegacyID: true,
	},
	KindFieldOfStudy: {
		Table:      "person",
		TitleExpr:  "field_of_study",
		SearchCols: []string{"field_of_study"},
	},
}

// ParseKind разбирает вид сущности из сегмента URL или параметра запроса
func ParseKind(s string) (Kind, error) {
	switch s {
	case "person":
		return KindPerson, nil
	case "org", "organization":
		return KindOrganization, nil
	case "doc", "document":
		return KindDocument, nil
	case "field":
		return KindFieldOfStudy, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// String возвращает каноническое имя вида
func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindOrganization:
		return "organization"
	case KindDocument:
		return "document"
	case KindFieldOfStudy:
		return "field"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Table возвращает имя таблицы, по которой работает вид
func (k Kind) Table() string {
	return kindTable[k].Table
}
