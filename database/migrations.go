package database

import (
	"database/sql"
	"fmt"
)

// catalogSchema DDL каталога. Схема повторяет структуру исходной системы:
// три сущностные таблицы с обратной ссылкой oldid на прежний идентификатор
// и две таблицы связей. Даты хранятся текстом в формате YYYY-MM-DD.
var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		oldid INTEGER,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		patronymic TEXT,
		name_en TEXT,
		surname_en TEXT,
		patronymic_en TEXT,
		birth_date TEXT,
		death_date TEXT,
		birth_place TEXT,
		death_place TEXT,
		academic_degree TEXT,
		field_of_study TEXT,
		area_of_study TEXT,
		biography TEXT,
		bibliography TEXT,
		photo TEXT,
		comment TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS organization (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		oldid INTEGER,
		name TEXT NOT NULL,
		org_type TEXT,
		history TEXT,
		comment TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		oldid INTEGER,
		name TEXT NOT NULL,
		doc_type TEXT,
		language TEXT,
		source TEXT,
		year TEXT,
		file TEXT,
		comment TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS document_authorship (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES person(id) ON DELETE CASCADE,
		document_id INTEGER NOT NULL REFERENCES document(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS organization_membership (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES person(id) ON DELETE CASCADE,
		organization_id INTEGER NOT NULL REFERENCES organization(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_person_oldid ON person(oldid)`,
	`CREATE INDEX IF NOT EXISTS idx_organization_oldid ON organization(oldid)`,
	`CREATE INDEX IF NOT EXISTS idx_document_oldid ON document(oldid)`,
	`CREATE INDEX IF NOT EXISTS idx_authorship_person ON document_authorship(person_id)`,
	`CREATE INDEX IF NOT EXISTS idx_authorship_document ON document_authorship(document_id)`,
	`CREATE INDEX IF NOT EXISTS idx_membership_person ON organization_membership(person_id)`,
	`CREATE INDEX IF NOT EXISTS idx_membership_organization ON organization_membership(organization_id)`,
}

// createCatalogSchema создает таблицы каталога, если их еще нет
func createCatalogSchema(conn *sql.DB) error {
	for _, stmt := range catalogSchema {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply catalog schema: %w", err)
		}
	}
	return nil
}
