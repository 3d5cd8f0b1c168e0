package database

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportFormat формат экспорта каталога
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "xlsx"
)

// ExportedRecord плоская строка экспорта: одна на каждую запись каталога
type ExportedRecord struct {
	Kind    string `json:"kind"`
	ID      int64  `json:"id"`
	OldID   *int64 `json:"oldid,omitempty"`
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	Year    string `json:"year,omitempty"`
}

var exportHeader = []string{"kind", "id", "oldid", "title", "details", "year"}

// Exporter экспортер каталога в json/csv/xlsx
type Exporter struct {
	db *CatalogDB
}

// NewExporter создает новый экспортер
func NewExporter(db *CatalogDB) *Exporter {
	return &Exporter{db: db}
}

// Export выгружает весь каталог в файл указанного формата
func (e *Exporter) Export(filename string, format ExportFormat) (int, error) {
	records, err := e.fetchRecords()
	if err != nil {
		return 0, err
	}

	switch format {
	case FormatJSON:
		err = e.writeJSON(filename, records)
	case FormatCSV:
		err = e.writeCSV(filename, records)
	case FormatExcel:
		err = e.writeExcel(filename, records)
	default:
		return 0, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// fetchRecords собирает плоское представление всех трех сущностных таблиц
func (e *Exporter) fetchRecords() ([]ExportedRecord, error) {
	queries := []struct {
		kind  string
		query string
	}{
		{"person", `SELECT id, oldid, ` + personTitleQuery + `,
			COALESCE(academic_degree, '') || CASE WHEN field_of_study IS NOT NULL THEN ', ' || field_of_study ELSE '' END,
			COALESCE(birth_date, '') FROM person ORDER BY id`},
		{"organization", `SELECT id, oldid, name, COALESCE(org_type, ''), '' FROM organization ORDER BY id`},
		{"document", `SELECT id, oldid, name, COALESCE(doc_type, ''), COALESCE(year, '') FROM document ORDER BY id`},
	}

	var records []ExportedRecord
	for _, q := range queries {
		rows, err := e.db.conn.Query(q.query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s records for export: %w", q.kind, err)
		}
		for rows.Next() {
			var (
				rec   = ExportedRecord{Kind: q.kind}
				oldid *int64
			)
			if err := rows.Scan(&rec.ID, &oldid, &rec.Title, &rec.Details, &rec.Year); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s export record: %w", q.kind, err)
			}
			rec.OldID = oldid
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return records, nil
}

func (e *Exporter) writeJSON(filename string, records []ExportedRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	result := map[string]any{
		"exported_at": time.Now().Format(time.RFC3339),
		"total":       len(records),
		"records":     records,
	}
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func (e *Exporter) writeCSV(filename string, records []ExportedRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(exportRow(rec)); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	return nil
}

func (e *Exporter) writeExcel(filename string, records []ExportedRecord) error {
	f := excelize.NewFile()
	sheet := "Catalog"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range records {
		for colIdx, v := range exportRow(rec) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}
	return nil
}

func exportRow(rec ExportedRecord) []string {
	oldid := ""
	if rec.OldID != nil {
		oldid = fmt.Sprintf("%d", *rec.OldID)
	}
	return []string{rec.Kind, fmt.Sprintf("%d", rec.ID), oldid, rec.Title, rec.Details, rec.Year}
}
