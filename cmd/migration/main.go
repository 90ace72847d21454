package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/neobank/pkg/db/migrations"
)

func main() {
	// Define command-line flags
	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	statusDB := statusCmd.String("db", "data/history.db", "Path to SQLite database")
	statusSet := statusCmd.String("set", migrations.SetHistory, "Migration set (storage or history)")

	migrateDB := migrateCmd.String("db", "data/history.db", "Path to SQLite database")
	migrateSet := migrateCmd.String("set", migrations.SetHistory, "Migration set (storage or history)")

	// Show usage if no arguments provided
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Parse command
	switch os.Args[1] {
	case "status":
		statusCmd.Parse(os.Args[2:])
		showStatus(*statusDB, *statusSet)

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(*migrateDB, *migrateSet)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run cmd/migration/main.go status  [-db PATH] [-set SET]  - List pending migrations")
	fmt.Println("  go run cmd/migration/main.go migrate [-db PATH] [-set SET]  - Apply pending migrations")
	fmt.Println("  go run cmd/migration/main.go help                           - Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  go run cmd/migration/main.go migrate -db data/history.db -set history")
	fmt.Println("  go run cmd/migration/main.go migrate -db data/neobank.db -set storage")
}

func openMigrator(dbPath, set string) (*sql.DB, *migrations.Migrator) {
	source, err := migrations.Set(set)
	if err != nil {
		log.Fatalf("Error loading migrations: %v", err)
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	return db, migrations.NewMigrator(db, source)
}

func showStatus(dbPath, set string) {
	db, migrator := openMigrator(dbPath, set)
	defer db.Close()

	pending, err := migrator.Pending()
	if err != nil {
		log.Fatalf("Error reading migrations: %v", err)
	}

	if len(pending) == 0 {
		fmt.Printf("%s: up to date\n", dbPath)
		return
	}
	fmt.Printf("%s: %d pending\n", dbPath, len(pending))
	for _, m := range pending {
		fmt.Printf("  %s  %s\n", m.Version, m.Description)
	}
}

func applyMigrations(dbPath, set string) {
	db, migrator := openMigrator(dbPath, set)
	defer db.Close()

	// Apply migrations
	if err := migrator.MigrateUp(); err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
