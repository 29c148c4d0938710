package main

import (
	"flag"
	"log"

	"kingtires/internal/config"
	"kingtires/internal/database"
)

func main() {
	status := flag.Bool("status", false, "print migration status instead of applying")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{URL: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *status {
		if err := db.MigrationStatus(); err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		return
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete")
}
