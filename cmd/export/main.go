package main

import (
	"flag"
	"fmt"
	"log"

	"archiveserver/database"
)

func main() {
	var (
		dbPath = flag.String("db", "./catalog.db", "Path to the catalog database")
		out    = flag.String("out", "catalog_export.json", "Output file")
		format = flag.String("format", "json", "Export format: json, csv or xlsx")
	)
	flag.Parse()

	db, err := database.NewCatalogDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer db.Close()

	n, err := database.NewExporter(db).Export(*out, database.ExportFormat(*format))
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Exported %d records to %s\n", n, *out)
}
