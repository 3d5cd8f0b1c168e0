package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"archiveserver/database"
	"archiveserver/migration"
)

func main() {
	var (
		dataDir    = flag.String("data", "", "Directory with the legacy CSV export bundle")
		dbPath     = flag.String("db", "./catalog.db", "Path to the catalog database")
		legacyBase = flag.String("legacy-media", "", "Base URL of the legacy media host for photo/file links")
		yes        = flag.Bool("yes", false, "Skip the interactive confirmation")
	)
	flag.Parse()

	if *dataDir == "" {
		log.Fatal("missing required -data flag with the source bundle directory")
	}

	bundle, err := migration.OpenBundle(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open source bundle: %v", err)
	}

	db, err := database.NewCatalogDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer db.Close()

	opts := migration.Options{LegacyMediaBase: *legacyBase}
	if !*yes {
		opts.Confirm = confirmTruncate
	}

	summary, err := migration.Run(db, bundle, opts)
	if errors.Is(err, migration.ErrAborted) {
		fmt.Println("Aborted, catalog left untouched.")
		return
	}
	if err != nil {
		log.Fatalf("Migration failed, catalog rolled back: %v", err)
	}

	fmt.Println("Migration completed:")
	for _, e := range summary.Entities {
		fmt.Printf("  %-24s %d inserted\n", e.Table, e.Inserted)
	}
	for _, r := range summary.Relations {
		fmt.Printf("  %-24s %d inserted, %d skipped\n", r.Table, r.Inserted, r.Skipped)
	}
	fmt.Printf("Done in %s\n", summary.Duration)
}

// confirmTruncate единственная контрольная точка перед необратимой
// очисткой каталога
func confirmTruncate() bool {
	fmt.Print("This will erase the entire catalog and reload it from the bundle. Continue? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
