package main

import (
	"ledger_service/internal/config" // Custom import path (Config)
	"ledger_service/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Migrate the isolated ledger schema with the elevated service DSN
	db.Migrate(cfg.DSN())
}
