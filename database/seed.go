package database

import (
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

func mustDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// SeedDemoData наполняет пустой каталог демонстрационными данными, чтобы
// интерфейс сразу показывал записи до первой миграции. Выполняется только
// если таблица person пуста; повторный вызов ничего не меняет.
func (c *CatalogDB) SeedDemoData() error {
	count, err := c.CountRows("person")
	if err != nil {
		return err
	}
	if count > 0 {
		// Уже есть реальные данные — оставляем как есть.
		return nil
	}

	gofakeit.Seed(0)

	fields := []string{"Палеонтология", "Минералогия", "Стратиграфия", "Геохимия"}
	degrees := []string{"д. г.-м. н.", "к. г.-м. н.", "академик"}

	var personIDs []int64
	for i := 0; i < 12; i++ {
		id, err := Insert(c.conn, "person",
			[]string{"name", "surname", "birth_date", "academic_degree", "field_of_study", "biography"},
			[]any{
				gofakeit.FirstName(),
				gofakeit.LastName(),
				gofakeit.DateRange(mustDate("1850-01-01"), mustDate("1950-12-31")).Format("2006-01-02"),
				gofakeit.RandomString(degrees),
				gofakeit.RandomString(fields),
				gofakeit.Paragraph(1, 3, 12, " "),
			})
		if err != nil {
			return fmt.Errorf("failed to seed person: %w", err)
		}
		personIDs = append(personIDs, id)
	}

	var orgIDs []int64
	for i := 0; i < 4; i++ {
		id, err := Insert(c.conn, "organization",
			[]string{"name", "org_type", "history"},
			[]any{
				fmt.Sprintf("Институт %s", gofakeit.Company()),
				"научный институт",
				gofakeit.Paragraph(1, 2, 10, " "),
			})
		if err != nil {
			return fmt.Errorf("failed to seed organization: %w", err)
		}
		orgIDs = append(orgIDs, id)
	}

	var docIDs []int64
	for i := 0; i < 8; i++ {
		id, err := Insert(c.conn, "document",
			[]string{"name", "doc_type", "language", "year"},
			[]any{
				gofakeit.Sentence(5),
				"статья",
				"русский",
				fmt.Sprintf("%d", gofakeit.Number(1880, 1990)),
			})
		if err != nil {
			return fmt.Errorf("failed to seed document: %w", err)
		}
		docIDs = append(docIDs, id)
	}

	for i, personID := range personIDs {
		if _, err := Insert(c.conn, "organization_membership",
			[]string{"person_id", "organization_id"},
			[]any{personID, orgIDs[i%len(orgIDs)]}); err != nil {
			return fmt.Errorf("failed to seed membership: %w", err)
		}
	}
	for i, docID := range docIDs {
		if _, err := Insert(c.conn, "document_authorship",
			[]string{"person_id", "document_id"},
			[]any{personIDs[i%len(personIDs)], docID}); err != nil {
			return fmt.Errorf("failed to seed authorship: %w", err)
		}
	}

	log.Printf("Seeded demo catalog: %d persons, %d organizations, %d documents",
		len(personIDs), len(orgIDs), len(docIDs))
	return nil
}
