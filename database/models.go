package database

import (
	"database/sql"
	"fmt"
)

// RelatedRef ссылка на связанную запись каталога
type RelatedRef struct {
	Kind  string `json:"kind"`
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Person биографическая запись персоналии
type Person struct {
	ID             int64        `json:"id"`
	OldID          *int64       `json:"oldid,omitempty"`
	Name           string       `json:"name"`
	Surname        string       `json:"surname"`
	Patronymic     *string      `json:"patronymic,omitempty"`
	NameEn         *string      `json:"name_en,omitempty"`
	SurnameEn      *string      `json:"surname_en,omitempty"`
	PatronymicEn   *string      `json:"patronymic_en,omitempty"`
	BirthDate      *string      `json:"birth_date,omitempty"`
	DeathDate      *string      `json:"death_date,omitempty"`
	BirthPlace     *string      `json:"birth_place,omitempty"`
	DeathPlace     *string      `json:"death_place,omitempty"`
	AcademicDegree *string      `json:"academic_degree,omitempty"`
	FieldOfStudy   *string      `json:"field_of_study,omitempty"`
	AreaOfStudy    *string      `json:"area_of_study,omitempty"`
	Biography      *string      `json:"biography,omitempty"`
	Bibliography   *string      `json:"bibliography,omitempty"`
	Photo          *string      `json:"photo,omitempty"`
	Comment        *string      `json:"comment,omitempty"`
	Organizations  []RelatedRef `json:"organizations,omitempty"`
	Documents      []RelatedRef `json:"documents,omitempty"`
}

// Organization запись организации
type Organization struct {
	ID      int64        `json:"id"`
	OldID   *int64       `json:"oldid,omitempty"`
	Name    string       `json:"name"`
	OrgType *string      `json:"org_type,omitempty"`
	History *string      `json:"history,omitempty"`
	Comment *string      `json:"comment,omitempty"`
	Members []RelatedRef `json:"members,omitempty"`
}

// Document запись документа/публикации
type Document struct {
	ID       int64        `json:"id"`
	OldID    *int64       `json:"oldid,omitempty"`
	Name     string       `json:"name"`
	DocType  *string      `json:"doc_type,omitempty"`
	Language *string      `json:"language,omitempty"`
	Source   *string      `json:"source,omitempty"`
	Year     *string      `json:"year,omitempty"`
	File     *string      `json:"file,omitempty"`
	Comment  *string      `json:"comment,omitempty"`
	Authors  []RelatedRef `json:"authors,omitempty"`
}

// personTitleQuery заголовок персоналии для ссылок из связанных записей
const personTitleQuery = "TRIM(surname || ' ' || name || ' ' || COALESCE(patronymic, ''))"

// GetPerson возвращает персоналию вместе со связанными организациями и документами
func (c *CatalogDB) GetPerson(id int64) (*Person, error) {
	var (
		p     Person
		oldid sql.NullInt64
		ns    [16]sql.NullString
	)

	err := c.conn.QueryRow(`
		SELECT oldid, name, surname, patronymic, name_en, surname_en, patronymic_en,
		       birth_date, death_date, birth_place, death_place,
		       academic_degree, field_of_study, area_of_study,
		       biography, bibliography, photo, comment
		FROM person WHERE id = ?
	`, id).Scan(&oldid, &p.Name, &p.Surname, &ns[0], &ns[1], &ns[2], &ns[3],
		&ns[4], &ns[5], &ns[6], &ns[7], &ns[8], &ns[9], &ns[10],
		&ns[11], &ns[12], &ns[13], &ns[14])
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load person %d: %w", id, err)
	}

	p.ID = id
	p.OldID = nullInt(oldid)
	p.Patronymic = nullStr(ns[0])
	p.NameEn = nullStr(ns[1])
	p.SurnameEn = nullStr(ns[2])
	p.PatronymicEn = nullStr(ns[3])
	p.BirthDate = nullStr(ns[4])
	p.DeathDate = nullStr(ns[5])
	p.BirthPlace = nullStr(ns[6])
	p.DeathPlace = nullStr(ns[7])
	p.AcademicDegree = nullStr(ns[8])
	p.FieldOfStudy = nullStr(ns[9])
	p.AreaOfStudy = nullStr(ns[10])
	p.Biography = nullStr(ns[11])
	p.Bibliography = nullStr(ns[12])
	p.Photo = nullStr(ns[13])
	p.Comment = nullStr(ns[14])

	p.Organizations, err = c.relatedRefs(`
		SELECT o.id, o.name FROM organization o
		JOIN organization_membership m ON m.organization_id = o.id
		WHERE m.person_id = ? ORDER BY o.id
	`, "organization", id)
	if err != nil {
		return nil, err
	}

	p.Documents, err = c.relatedRefs(`
		SELECT d.id, d.name FROM document d
		JOIN document_authorship a ON a.document_id = d.id
		WHERE a.person_id = ? ORDER BY d.id
	`, "document", id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetOrganization возвращает организацию вместе с участниками
func (c *CatalogDB) GetOrganization(id int64) (*Organization, error) {
	var (
		o       Organization
		oldid   sql.NullInt64
		orgType sql.NullString
		history sql.NullString
		comment sql.NullString
	)

	err := c.conn.QueryRow(`
		SELECT oldid, name, org_type, history, comment FROM organization WHERE id = ?
	`, id).Scan(&oldid, &o.Name, &orgType, &history, &comment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load organization %d: %w", id, err)
	}

	o.ID = id
	o.OldID = nullInt(oldid)
	o.OrgType = nullStr(orgType)
	o.History = nullStr(history)
	o.Comment = nullStr(comment)

	o.Members, err = c.relatedRefs(`
		SELECT p.id, `+personTitleQuery+` FROM person p
		JOIN organization_membership m ON m.person_id = p.id
		WHERE m.organization_id = ? ORDER BY p.id
	`, "person", id)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// GetDocument возвращает документ вместе с авторами
func (c *CatalogDB) GetDocument(id int64) (*Document, error) {
	var (
		d     Document
		oldid sql.NullInt64
		ns    [6]sql.NullString
	)

	err := c.conn.QueryRow(`
		SELECT oldid, name, doc_type, language, source, year, file, comment
		FROM document WHERE id = ?
	`, id).Scan(&oldid, &d.Name, &ns[0], &ns[1], &ns[2], &ns[3], &ns[4], &ns[5])
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", id, err)
	}

	d.ID = id
	d.OldID = nullInt(oldid)
	d.DocType = nullStr(ns[0])
	d.Language = nullStr(ns[1])
	d.Source = nullStr(ns[2])
	d.Year = nullStr(ns[3])
	d.File = nullStr(ns[4])
	d.Comment = nullStr(ns[5])

	d.Authors, err = c.relatedRefs(`
		SELECT p.id, `+personTitleQuery+` FROM person p
		JOIN document_authorship a ON a.person_id = p.id
		WHERE a.document_id = ? ORDER BY p.id
	`, "person", id)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (c *CatalogDB) relatedRefs(query, kind string, id int64) ([]RelatedRef, error) {
	rows, err := c.conn.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load related %s records: %w", kind, err)
	}
	defer rows.Close()

	var refs []RelatedRef
	for rows.Next() {
		ref := RelatedRef{Kind: kind}
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("failed to scan related %s record: %w", kind, err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// UpdateFields обновляет именованные колонки одной записи (путь редактирования
// вне миграции). Колонки задает обработчик, не пользовательский ввод.
func (c *CatalogDB) UpdateFields(kind Kind, id int64, columns []string, values []any) error {
	if len(columns) == 0 {
		return nil
	}
	if len(columns) != len(values) {
		return fmt.Errorf("update %s: %d columns for %d values", kind.Table(), len(columns), len(values))
	}

	set := ""
	for i, col := range columns {
		if i > 0 {
			set += ", "
		}
		set += col + " = ?"
	}

	args := append(append([]any{}, values...), id)
	res, err := c.conn.Exec("UPDATE "+kind.Table()+" SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", kind.Table(), id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteRecord удаляет запись и каскадно ее связи
func (c *CatalogDB) DeleteRecord(kind Kind, id int64) error {
	res, err := c.conn.Exec("DELETE FROM "+kind.Table()+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", kind.Table(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
