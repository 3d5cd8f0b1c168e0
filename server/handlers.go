package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"archiveserver/database"
	"archiveserver/normalization"
)

// Handler обработчики HTTP API каталога
type Handler struct {
	db  *database.CatalogDB
	cfg *Config
}

// NewHandler создает обработчики поверх открытой базы каталога
func NewHandler(db *database.CatalogDB, cfg *Config) *Handler {
	return &Handler{db: db, cfg: cfg}
}

// editableColumns разрешенные к редактированию колонки по видам сущностей.
// Колонка oldid намеренно не редактируется: обратная ссылка осмысленна
// только в рамках миграции.
var editableColumns = map[database.Kind][]string{
	database.KindPerson: {
		"name", "surname", "patronymic", "name_en", "surname_en", "patronymic_en",
		"birth_date", "death_date", "birth_place", "death_place",
		"academic_degree", "field_of_study", "area_of_study",
		"biography", "bibliography", "photo", "comment",
	},
	database.KindOrganization: {"name", "org_type", "history", "comment"},
	database.KindDocument:     {"name", "doc_type", "language", "source", "year", "file", "comment"},
}

// Health проверка живости сервиса
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// View отдает одну запись каталога вместе со связанными записями
func (h *Handler) View(c *gin.Context) {
	kind, id, ok := h.kindAndID(c)
	if !ok {
		return
	}

	var (
		record any
		err    error
	)
	switch kind {
	case database.KindPerson:
		var p *database.Person
		p, err = h.db.GetPerson(id)
		if p != nil {
			record = p
		}
	case database.KindOrganization:
		var o *database.Organization
		o, err = h.db.GetOrganization(id)
		if o != nil {
			record = o
		}
	case database.KindDocument:
		var d *database.Document
		d, err = h.db.GetDocument(id)
		if d != nil {
			record = d
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is not viewable"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// Search универсальный поиск по каталогу с динамическими фильтрами.
// Свободнотекстовые термы сопоставляются и в исходной форме, и по
// основе после стемминга.
func (h *Handler) Search(c *gin.Context) {
	kind, err := database.ParseKind(c.DefaultQuery("kind", "person"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := database.SearchParams{
		Kind:     kind,
		YearFrom: atoiOrZero(c.Query("year_from")),
		YearTo:   atoiOrZero(c.Query("year_to")),
		Field:    c.Query("field"),
		Limit:    atoiOrZero(c.Query("limit")),
	}

	for _, variants := range normalization.QueryVariants(c.Query("q")) {
		params.Terms = append(params.Terms, database.SearchTerm{Variants: variants})
	}

	results, err := h.db.Search(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":    kind.String(),
		"total":   len(results),
		"results": results,
	})
}

// AdminRequired пропускает только запросы с административным токеном.
// Пустой токен в конфигурации полностью отключает редактирование.
func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cfg.AdminToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "editing is disabled"})
			return
		}

		auth := c.GetHeader("Authorization")
		if auth != "Bearer "+h.cfg.AdminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}

// Create создает новую запись каталога
func (h *Handler) Create(c *gin.Context) {
	kind, err := database.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	columns, values, ok := h.bindEditableFields(c, kind)
	if !ok {
		return
	}
	if len(columns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no editable fields in request"})
		return
	}

	id, err := database.Insert(h.db.Conn(), kind.Table(), columns, values)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"kind": kind.String(), "id": id})
}

// Update обновляет поля существующей записи
func (h *Handler) Update(c *gin.Context) {
	kind, id, ok := h.kindAndID(c)
	if !ok {
		return
	}

	columns, values, ok := h.bindEditableFields(c, kind)
	if !ok {
		return
	}
	if len(columns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no editable fields in request"})
		return
	}

	if err := h.db.UpdateFields(kind, id, columns, values); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind.String(), "id": id})
}

// Delete удаляет запись и каскадно ее связи
func (h *Handler) Delete(c *gin.Context) {
	kind, id, ok := h.kindAndID(c)
	if !ok {
		return
	}

	if err := h.db.DeleteRecord(kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Export выгружает каталог в json/csv/xlsx и отдает файл
func (h *Handler) Export(c *gin.Context) {
	format := database.ExportFormat(c.DefaultQuery("format", "json"))
	switch format {
	case database.FormatJSON, database.FormatCSV, database.FormatExcel:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}

	name := fmt.Sprintf("catalog_%s.%s", time.Now().Format("2006-01-02"), format)
	path := filepath.Join(os.TempDir(), name)

	if _, err := database.NewExporter(h.db).Export(path, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(path)

	c.FileAttachment(path, name)
}

func (h *Handler) kindAndID(c *gin.Context) (database.Kind, int64, bool) {
	kind, err := database.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	if kind == database.KindFieldOfStudy {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field kind has no records"})
		return 0, 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return 0, 0, false
	}
	return kind, id, true
}

// bindEditableFields собирает пары колонка-значение из JSON-тела,
// пропуская только разрешенные для вида колонки
func (h *Handler) bindEditableFields(c *gin.Context, kind database.Kind) ([]string, []any, bool) {
	allowed, ok := editableColumns[kind]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is not editable"})
		return nil, nil, false
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, nil, false
	}

	var (
		columns []string
		values  []any
	)
	for _, col := range allowed {
		v, present := body[col]
		if !present {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			// пустая строка означает очистку поля
			v = nil
		}
		columns = append(columns, col)
		values = append(values, v)
	}
	return columns, values, true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
