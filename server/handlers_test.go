package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiveserver/database"
)

const testAdminToken = "test-admin-token"

func setupTestServer(t *testing.T) (*gin.Engine, *database.CatalogDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewCatalogDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &Config{AdminToken: testAdminToken}
	return NewRouter(db, cfg), db
}

func seedTestPerson(t *testing.T, db *database.CatalogDB) int64 {
	t.Helper()
	id, err := database.Insert(db.Conn(), "person",
		[]string{"oldid", "name", "surname", "field_of_study"},
		[]any{1, "Петр", "Иванов", "Палеонтология"})
	require.NoError(t, err)
	return id
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupTestServer(t)
	w := doRequest(router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestView(t *testing.T) {
	router, db := setupTestServer(t)
	id := seedTestPerson(t, db)

	w := doRequest(router, http.MethodGet, "/api/person/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p database.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Иванов", p.Surname)
}

func TestView_NotFound(t *testing.T) {
	router, _ := setupTestServer(t)
	w := doRequest(router, http.MethodGet, "/api/person/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestView_BadRequests(t *testing.T) {
	router, _ := setupTestServer(t)

	// неизвестный вид сущности
	w := doRequest(router, http.MethodGet, "/api/planet/1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// у среза областей исследования нет отдельных записей
	w = doRequest(router, http.MethodGet, "/api/field/1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// нечисловой идентификатор
	w = doRequest(router, http.MethodGet, "/api/person/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	router, db := setupTestServer(t)
	seedTestPerson(t, db)

	w := doRequest(router, http.MethodGet, "/api/search?q=%D0%98%D0%B2%D0%B0%D0%BD%D0%BE%D0%B2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Kind    string                  `json:"kind"`
		Total   int                     `json:"total"`
		Results []database.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "person", payload.Kind)
	require.Equal(t, 1, payload.Total)
	assert.Equal(t, "Иванов Петр", payload.Results[0].Title)
}

// Склоняемая форма запроса находит запись по основе слова
func TestSearch_StemmedQuery(t *testing.T) {
	router, db := setupTestServer(t)
	seedTestPerson(t, db)

	// формы "палеонтологии" в каталоге нет, но ее основа входит
	// в "Палеонтология"
	w := doRequest(router, http.MethodGet,
		"/api/search?q=%D0%BF%D0%B0%D0%BB%D0%B5%D0%BE%D0%BD%D1%82%D0%BE%D0%BB%D0%BE%D0%B3%D0%B8%D0%B8", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestSearch_UnknownKind(t *testing.T) {
	router, _ := setupTestServer(t)
	w := doRequest(router, http.MethodGet, "/api/search?kind=planet", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequired(t *testing.T) {
	router, db := setupTestServer(t)
	id := seedTestPerson(t, db)
	body := map[string]any{"comment": "правка"}

	// без токена
	w := doRequest(router, http.MethodPut, "/api/person/1", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// с неверным токеном
	w = doRequest(router, http.MethodPut, "/api/person/1", "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// с верным токеном
	w = doRequest(router, http.MethodPut, "/api/person/1", testAdminToken, body)
	assert.Equal(t, http.StatusOK, w.Code)

	p, err := db.GetPerson(id)
	require.NoError(t, err)
	require.NotNil(t, p.Comment)
	assert.Equal(t, "правка", *p.Comment)
}

// Пустой токен в конфигурации полностью выключает редактирование
func TestAdminRequired_EditingDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.NewCatalogDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := NewRouter(db, &Config{AdminToken: ""})
	w := doRequest(router, http.MethodDelete, "/api/person/1", "any", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreate(t *testing.T) {
	router, db := setupTestServer(t)

	w := doRequest(router, http.MethodPost, "/api/org", testAdminToken, map[string]any{
		"name":     "Геологический комитет",
		"org_type": "комитет",
		"oldid":    77, // нередактируемая колонка игнорируется
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Kind string `json:"kind"`
		ID   int64  `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "organization", created.Kind)

	o, err := db.GetOrganization(created.ID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "Геологический комитет", o.Name)
	assert.Nil(t, o.OldID)
}

func TestCreate_NoEditableFields(t *testing.T) {
	router, _ := setupTestServer(t)
	w := doRequest(router, http.MethodPost, "/api/person", testAdminToken, map[string]any{"oldid": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Пустая строка в теле запроса очищает поле
func TestUpdate_EmptyStringClearsField(t *testing.T) {
	router, db := setupTestServer(t)
	id := seedTestPerson(t, db)

	w := doRequest(router, http.MethodPut, "/api/person/1", testAdminToken,
		map[string]any{"field_of_study": ""})
	require.Equal(t, http.StatusOK, w.Code)

	p, err := db.GetPerson(id)
	require.NoError(t, err)
	assert.Nil(t, p.FieldOfStudy)
}

func TestUpdate_NotFound(t *testing.T) {
	router, _ := setupTestServer(t)
	w := doRequest(router, http.MethodPut, "/api/person/999", testAdminToken,
		map[string]any{"comment": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	router, db := setupTestServer(t)
	id := seedTestPerson(t, db)

	w := doRequest(router, http.MethodDelete, "/api/person/1", testAdminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	p, err := db.GetPerson(id)
	require.NoError(t, err)
	assert.Nil(t, p)

	w = doRequest(router, http.MethodDelete, "/api/person/1", testAdminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	seedTestPerson(t, db)

	w := doRequest(router, http.MethodGet, "/api/export?format=csv", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Иванов Петр")

	w = doRequest(router, http.MethodGet, "/api/export?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
