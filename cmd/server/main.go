package main

import (
	"log"

	"archiveserver/database"
	"archiveserver/server"
)

func main() {
	cfg := server.LoadConfig()

	db, err := database.NewCatalogDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := db.SeedDemoData(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	router := server.NewRouter(db, cfg)

	log.Printf("Catalog server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
