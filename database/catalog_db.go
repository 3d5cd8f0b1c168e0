package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

func init() {
	// LIKE в SQLite без ICU не учитывает регистр за пределами ASCII,
	// поэтому регистрируем юникодный lower для поисковых предикатов
	sql.Register("sqlite3_catalog", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// CatalogDB обертка для работы с базой каталога. Заменяет глобальное
// соединение: создается явно, закрывается явно и передается в загрузчики
// и обработчики как ресурс.
type CatalogDB struct {
	conn *sql.DB
}

// NewCatalogDB открывает базу каталога и создает схему при первом запуске
func NewCatalogDB(dbPath string) (*CatalogDB, error) {
	conn, err := sql.Open("sqlite3_catalog", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// Для in-memory SQLite требуется ровно одно соединение, иначе каждое
	// новое соединение получает пустую БД без таблиц.
	if dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory") {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := createCatalogSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &CatalogDB{conn: conn}, nil
}

// Close закрывает соединение с базой
func (c *CatalogDB) Close() error {
	return c.conn.Close()
}

// Conn возвращает низкоуровневое соединение (для транзакций миграции)
func (c *CatalogDB) Conn() *sql.DB {
	return c.conn
}

// Execer общий интерфейс для *sql.DB и *sql.Tx
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Querier общий интерфейс чтения для *sql.DB и *sql.Tx
type Querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Insert универсальная вставка одной строки: insert(table, columns, values).
// Возвращает новый автоинкрементный идентификатор.
func Insert(e Execer, table string, columns []string, values []any) (int64, error) {
	if len(columns) != len(values) {
		return 0, fmt.Errorf("insert into %s: %d columns for %d values", table, len(columns), len(values))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)

	res, err := e.Exec(query, values...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new id for %s: %w", table, err)
	}
	return id, nil
}

// truncateOrder порядок очистки: сначала таблицы связей, затем сущности,
// что эквивалентно каскадному TRUNCATE исходной системы.
var truncateOrder = []string{
	"document_authorship",
	"organization_membership",
	"document",
	"organization",
	"person",
}

// TruncateCatalog очищает все пять таблиц каталога в переданной транзакции
func TruncateCatalog(tx Execer) error {
	for _, table := range truncateOrder {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		// Сбрасываем автоинкремент, чтобы повторный прогон давал те же id.
		// До первой вставки таблицы sqlite_sequence еще нет — это не ошибка.
		if _, err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil &&
			!strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

// ResolveLegacyID разрешает прежний идентификатор в новый по обратной
// ссылке oldid. Отсутствие записи не ошибка: вызывающий пропускает связь.
func ResolveLegacyID(q Querier, kind Kind, legacyID int) (int64, bool, error) {
	info, ok := kindTable[kind]
	if !ok || !info.HasLegacyID {
		return 0, false, fmt.Errorf("kind %s has no legacy backreference", kind)
	}

	var id int64
	err := q.QueryRow("SELECT id FROM "+info.Table+" WHERE oldid = ?", legacyID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve legacy id %d in %s: %w", legacyID, info.Table, err)
	}
	return id, true, nil
}

// CountRows возвращает число строк в таблице каталога
func (c *CatalogDB) CountRows(table string) (int, error) {
	var n int
	if err := c.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
