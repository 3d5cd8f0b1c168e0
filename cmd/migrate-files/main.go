package main

import (
	"flag"
	"fmt"
	"log"

	"archiveserver/database"
	"archiveserver/migration"
)

func main() {
	var (
		inDir  = flag.String("in", "", "Directory with the legacy media files")
		outDir = flag.String("out", "static/uploads", "Uploads directory for migrated files")
		dbPath = flag.String("db", "./catalog.db", "Path to the catalog database")
	)
	flag.Parse()

	if *inDir == "" {
		log.Fatal("missing required -in flag with the legacy files directory")
	}

	db, err := database.NewCatalogDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer db.Close()

	result, err := migration.MigrateFiles(db, *inDir, *outDir)
	if err != nil {
		log.Fatalf("File migration failed: %v", err)
	}

	fmt.Printf("Copied %d files: %d person photos updated, %d document files updated, %d names skipped\n",
		result.Copied, result.UpdatedPersons, result.UpdatedDocs, result.Unmatched)
}
