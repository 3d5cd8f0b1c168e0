package migration

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"archiveserver/database"
)

// mediaFileRe имена файлов легаси-системы: photo-fil-<oldid>.<ext> для
// фотографий персоналий и pub-fil-<oldid>.<ext> для файлов документов
var mediaFileRe = regexp.MustCompile(`^(photo|pub)-fil-(\d+)\.(jpg|jpeg|png|pdf|gif|JPG|tiff|bmp|tif)$`)

// FileMigrationResult итог переноса медиафайлов
type FileMigrationResult struct {
	Copied         int `json:"copied"`
	UpdatedPersons int `json:"updated_persons"`
	UpdatedDocs    int `json:"updated_docs"`
	Unmatched      int `json:"unmatched"`
}

// MigrateFiles переносит медиафайлы легаси-системы в каталог загрузок и
// обновляет пути в записях каталога по обратной ссылке oldid. Файлы, чье
// имя не укладывается в легаси-формат, пропускаются и считаются.
// Новое имя получает префикс с отметкой времени, чтобы повторный перенос
// не затирал предыдущие копии.
func MigrateFiles(db *database.CatalogDB, oldDir, newDir string) (*FileMigrationResult, error) {
	if err := os.MkdirAll(newDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	entries, err := os.ReadDir(oldDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	result := &FileMigrationResult{}
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := mediaFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			result.Unmatched++
			continue
		}

		oldid, _ := strconv.Atoi(m[2])
		newName := fmt.Sprintf("[%s]%s", timestamp, entry.Name())
		newPath := filepath.Join(newDir, newName)

		if err := copyFile(filepath.Join(oldDir, entry.Name()), newPath); err != nil {
			return result, err
		}
		result.Copied++

		switch m[1] {
		case "photo":
			n, err := updateMediaPath(db, "person", "photo", oldid, newPath)
			if err != nil {
				return result, err
			}
			if n > 0 {
				result.UpdatedPersons += n
				log.Printf("Updated person oldid=%d photo: %s", oldid, newPath)
			}
		case "pub":
			n, err := updateMediaPath(db, "document", "file", oldid, newPath)
			if err != nil {
				return result, err
			}
			if n > 0 {
				result.UpdatedDocs += n
				log.Printf("Updated document oldid=%d file: %s", oldid, newPath)
			}
		}
	}

	return result, nil
}

func updateMediaPath(db *database.CatalogDB, table, column string, oldid int, path string) (int, error) {
	res, err := db.Conn().Exec(
		fmt.Sprintf("UPDATE %s SET %s = ? WHERE oldid = ?", table, column), path, oldid)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s.%s for oldid %d: %w", table, column, oldid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
