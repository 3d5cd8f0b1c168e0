package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"archiveserver/database"
)

func TestMigrateFiles(t *testing.T) {
	db := setupCatalogDB(t)
	if _, err := database.Insert(db.Conn(), "person",
		[]string{"oldid", "name", "surname"}, []any{7, "Петр", "Иванов"}); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Insert(db.Conn(), "document",
		[]string{"oldid", "name"}, []any{3, "Очерки"}); err != nil {
		t.Fatal(err)
	}

	oldDir := t.TempDir()
	newDir := filepath.Join(t.TempDir(), "uploads")
	for name, content := range map[string]string{
		"photo-fil-7.jpg":  "фото",
		"pub-fil-3.pdf":    "документ",
		"photo-fil-99.png": "без записи в каталоге",
		"readme.txt":       "не медиафайл",
	} {
		if err := os.WriteFile(filepath.Join(oldDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	result, err := MigrateFiles(db, oldDir, newDir)
	if err != nil {
		t.Fatalf("MigrateFiles() failed: %v", err)
	}

	if result.Copied != 3 {
		t.Errorf("Copied = %d, want 3", result.Copied)
	}
	if result.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", result.Unmatched)
	}
	if result.UpdatedPersons != 1 || result.UpdatedDocs != 1 {
		t.Errorf("Updated persons/docs = %d/%d, want 1/1", result.UpdatedPersons, result.UpdatedDocs)
	}

	entries, err := os.ReadDir(newDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("uploads directory has %d files, want 3", len(entries))
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "[") {
			t.Errorf("copied file %q lacks timestamp prefix", e.Name())
		}
	}

	var photo string
	if err := db.Conn().QueryRow(`SELECT photo FROM person WHERE oldid = 7`).Scan(&photo); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(photo, "photo-fil-7.jpg") || !strings.Contains(photo, "uploads") {
		t.Errorf("person photo = %q, want path inside uploads", photo)
	}

	var file string
	if err := db.Conn().QueryRow(`SELECT file FROM document WHERE oldid = 3`).Scan(&file); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(file, "pub-fil-3.pdf") {
		t.Errorf("document file = %q", file)
	}
}

func TestMigrateFiles_MissingSourceDir(t *testing.T) {
	db := setupCatalogDB(t)
	if _, err := MigrateFiles(db, filepath.Join(t.TempDir(), "absent"), t.TempDir()); err == nil {
		t.Fatal("MigrateFiles() succeeded with a missing source directory")
	}
}
