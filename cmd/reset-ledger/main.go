package main

import (
	"log"

	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/service"
	"go-stock-ledger/pkg/database"

	"github.com/joho/godotenv"
)

// Operational tool: wipes all product rows and zeroes the revenue
// aggregate in the configured database.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Reset
	ledgerRepo := repository.NewLedgerRepo(db)
	ledgerService := service.NewLedgerService(ledgerRepo, db, nil)
	if err := ledgerService.ResetAll(); err != nil {
		log.Fatalf("Failed to reset ledger: %v", err)
	}

	log.Println("Ledger reset: all stock cleared, revenue back to 0")
}
