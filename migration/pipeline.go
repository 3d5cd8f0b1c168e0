package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"archiveserver/database"
)

// ErrAborted возвращается, когда оператор не подтвердил запуск.
// Каталог при этом остается нетронутым.
var ErrAborted = errors.New("migration aborted by operator")

// Options параметры запуска миграции
type Options struct {
	// LegacyMediaBase базовый URL медиахоста легаси-системы для переписи
	// относительных ссылок на фото и файлы
	LegacyMediaBase string

	// Confirm интерактивное подтверждение перед необратимой очисткой.
	// nil означает неинтерактивный запуск (подтверждение уже получено).
	Confirm func() bool

	// Logf приемник журнала хода миграции; по умолчанию log.Printf
	Logf func(format string, v ...any)
}

// EntityResult итог загрузки одной сущностной таблицы
type EntityResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
}

// Summary итог полного прогона миграции
type Summary struct {
	Entities  []EntityResult   `json:"entities"`
	Relations []RelationResult `json:"relations"`
	Duration  time.Duration    `json:"duration"`
}

// Pipeline один прогон миграции: явно созданный ресурс с транзакцией,
// передаваемой во все загрузчики
type Pipeline struct {
	tx   *sql.Tx
	opts Options
}

func (p *Pipeline) logf(format string, v ...any) {
	if p.opts.Logf != nil {
		p.opts.Logf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// Run выполняет миграцию выгрузки в каталог двумя фазами: сущности, затем
// связи. Весь прогон идет в одной транзакции: очистка, обе фазы и
// фазовый барьер между ними (SAVEPOINT). Любая ошибка откатывает
// транзакцию целиком, и каталог остается в состоянии до запуска.
func Run(db *database.CatalogDB, bundle *Bundle, opts Options) (*Summary, error) {
	if opts.Confirm != nil && !opts.Confirm() {
		return nil, ErrAborted
	}

	start := time.Now()

	// Все шесть файлов читаются и проверяются до открытия транзакции:
	// битая выгрузка не должна дойти даже до очистки
	personRows, err := bundle.Read(FilePerson)
	if err != nil {
		return nil, err
	}
	orgRows, err := bundle.Read(FileOrg)
	if err != nil {
		return nil, err
	}
	pubRows, err := bundle.Read(FilePub)
	if err != nil {
		return nil, err
	}
	sourceRows, err := bundle.Read(FileSource)
	if err != nil {
		return nil, err
	}
	authorRows, err := bundle.Read(FileAuthor)
	if err != nil {
		return nil, err
	}
	employRows, err := bundle.Read(FileEmploy)
	if err != nil {
		return nil, err
	}

	tx, err := db.Conn().Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin migration transaction: %w", err)
	}

	p := &Pipeline{tx: tx, opts: opts}

	summary, err := p.run(personRows, orgRows, pubRows, sourceRows, authorRows, employRows)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit migration: %w", err)
	}

	summary.Duration = time.Since(start)
	p.logf("Migration completed in %s", summary.Duration)
	return summary, nil
}

func (p *Pipeline) run(personRows, orgRows, pubRows, sourceRows, authorRows, employRows [][]string) (*Summary, error) {
	summary := &Summary{}

	p.logf("Truncating catalog tables")
	if err := database.TruncateCatalog(p.tx); err != nil {
		return nil, err
	}

	// Фаза 1: сущности. Порядок фиксированный, документы зависят от
	// справочника источников.
	sources := loadSourceLookup(sourceRows)

	n, err := p.loadPersons(personRows)
	if err != nil {
		return nil, err
	}
	summary.Entities = append(summary.Entities, EntityResult{Table: "person", Inserted: n})
	p.logf("Loaded %d persons", n)

	n, err = p.loadOrganizations(orgRows)
	if err != nil {
		return nil, err
	}
	summary.Entities = append(summary.Entities, EntityResult{Table: "organization", Inserted: n})
	p.logf("Loaded %d organizations", n)

	n, err = p.loadDocuments(pubRows, sources)
	if err != nil {
		return nil, err
	}
	summary.Entities = append(summary.Entities, EntityResult{Table: "document", Inserted: n})
	p.logf("Loaded %d documents", n)

	// Фазовый барьер: связи разрешают oldid только по полностью
	// загруженной фазе сущностей
	if _, err := p.tx.Exec("SAVEPOINT entities_loaded"); err != nil {
		return nil, fmt.Errorf("failed to mark entity phase: %w", err)
	}

	rel, err := p.loadRelationships(authorRows, authorshipSpec)
	if err != nil {
		return nil, err
	}
	summary.Relations = append(summary.Relations, rel)
	p.logf("Loaded %d authorship rows, %d skipped", rel.Inserted, rel.Skipped)

	rel, err = p.loadRelationships(employRows, membershipSpec)
	if err != nil {
		return nil, err
	}
	summary.Relations = append(summary.Relations, rel)
	p.logf("Loaded %d membership rows, %d skipped", rel.Inserted, rel.Skipped)

	if _, err := p.tx.Exec("RELEASE SAVEPOINT entities_loaded"); err != nil {
		return nil, fmt.Errorf("failed to release entity phase savepoint: %w", err)
	}

	return summary, nil
}
