package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/khana/backend/config"
	"github.com/pageza/khana/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("DATABASE_URL is not set and config failed to load: %v", err)
		}
		dsn = cfg.DatabaseURL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if *rollback {
		if err := database.MigrateDown(db); err != nil {
			log.Fatalf("failed to roll back: %v", err)
		}
	} else if err := database.MigrateUp(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	version, dirty, err := database.MigrationVersion(db)
	if err != nil {
		log.Fatalf("failed to read schema version: %v", err)
	}
	fmt.Printf("Schema at version %d (dirty=%t)\n", version, dirty)
}
