package migration

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SourceFile описывает один файл выгрузки: имя и ожидаемую ширину строки.
// Файлы не имеют заголовков, контракт — позиция колонки; раскладки ниже
// объявлены один раз и проверяются при чтении.
type SourceFile struct {
	Name       string
	MinColumns int
}

var (
	// person.csv раскладка: 0 oldid, 1 полное имя, 4 имя, 5 отчество,
	// 6 фамилия, 7 имя лат., 8 фамилия лат., 10 дата рождения, 11 место
	// рождения, 12 дата смерти, 13 место смерти, 14 степень, 15 область
	// исследования, 16 география, 18 биография, 19 библиография,
	// 20 фото, 21 комментарий
	FilePerson = SourceFile{Name: "person.csv", MinColumns: 22}
	// org.csv: 0 oldid, 1 название, 2 тип, 3 история, 4 комментарий
	FileOrg = SourceFile{Name: "org.csv", MinColumns: 5}
	// pub.csv: 0 oldid, 1 название, 2 тип, 3 язык, 4 oldid источника,
	// 5 год, 6 файл, 7 комментарий
	FilePub = SourceFile{Name: "pub.csv", MinColumns: 8}
	// source.csv: 0 oldid, 1 текст источника
	FileSource = SourceFile{Name: "source.csv", MinColumns: 2}
	// author.csv: 0 id строки, 1 oldid персоналии, 2 oldid публикации
	FileAuthor = SourceFile{Name: "author.csv", MinColumns: 3}
	// employ.csv: 0 id строки, 1 oldid персоналии, 2 oldid организации
	FileEmploy = SourceFile{Name: "employ.csv", MinColumns: 3}
)

var bundleFiles = []SourceFile{FilePerson, FileOrg, FilePub, FileSource, FileAuthor, FileEmploy}

// Индексы колонок person.csv
const (
	colPersonOldID = 0
	colPersonFull  = 1
	colPersonName  = 4
	colPersonPatr  = 5
	colPersonSur   = 6
	colPersonNameEn = 7
	colPersonSurEn  = 8
	colPersonBirth  = 10
	colPersonBirthPlace = 11
	colPersonDeath      = 12
	colPersonDeathPlace = 13
	colPersonDegree     = 14
	colPersonField      = 15
	colPersonArea       = 16
	colPersonBio        = 18
	colPersonBibl       = 19
	colPersonPhoto      = 20
	colPersonComment    = 21
)

// Bundle каталог с шестью файлами легаси-выгрузки
type Bundle struct {
	dir string
}

// OpenBundle проверяет, что в каталоге есть все шесть файлов выгрузки.
// Отсутствие любого из них — ошибка до начала каких-либо изменений.
func OpenBundle(dir string) (*Bundle, error) {
	for _, f := range bundleFiles {
		path := filepath.Join(dir, f.Name)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("source bundle is incomplete: %w", err)
		}
	}
	return &Bundle{dir: dir}, nil
}

// Read читает один файл выгрузки целиком и проверяет каждую строку по
// объявленной раскладке: не меньше MinColumns колонок и числовой
// идентификатор в нулевой колонке. Нарушение — фатальная ошибка с именем
// файла и номером строки в диагностике.
func (b *Bundle) Read(f SourceFile) ([][]string, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, f.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}

	data, err = decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Name, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
	}

	rows := make([][]string, 0, len(raw))
	for i, row := range raw {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < f.MinColumns {
			return nil, fmt.Errorf("%s row %d: expected at least %d columns, got %d (column layout drift?)",
				f.Name, i+1, f.MinColumns, len(row))
		}
		if _, err := strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
			return nil, fmt.Errorf("%s row %d: non-numeric id %q", f.Name, i+1, row[0])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeToUTF8 возвращает данные в UTF-8. Выгрузки встречаются и в
// Windows-1251; если байты не валидный UTF-8, перекодируем.
func decodeToUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("windows-1251 decode failed: %w", err)
	}
	if !utf8.Valid(decoded) {
		return nil, fmt.Errorf("data is neither UTF-8 nor Windows-1251")
	}
	return decoded, nil
}

// rowID числовой идентификатор из нулевой колонки. Read уже проверил
// число, поэтому ошибка здесь невозможна.
func rowID(row []string) int {
	id, _ := strconv.Atoi(strings.TrimSpace(row[0]))
	return id
}
