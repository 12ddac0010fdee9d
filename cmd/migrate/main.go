package main

import (
	"log"
	"os"

	"music-promo-be/internal/model"
	"music-promo-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.ModerationItem{},
		&model.Transaction{},
		&model.WithdrawalRequest{},
		&model.UserTier{},
		&model.NotificationType{},
		&model.Notification{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views
	log.Println("Step 3: Creating Views...")

	postMigrationSQL := []string{
		// View: user_ledger_totals. The same aggregation the balance
		// endpoint runs, exposed for ops queries.
		`CREATE OR REPLACE VIEW user_ledger_totals AS
		 SELECT user_id,
		        COALESCE(SUM(CASE WHEN type = 'income' THEN net_amount ELSE 0 END), 0) AS income,
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense,
		        COALESCE(SUM(CASE WHEN type = 'withdraw' THEN amount ELSE 0 END), 0) AS withdraw_amount,
		        COALESCE(SUM(CASE WHEN type = 'withdraw' THEN fee ELSE 0 END), 0) AS withdraw_fee
		 FROM transactions
		 WHERE status = 'completed'
		 GROUP BY user_id;`,

		// View: moderation_queue_stats
		`CREATE OR REPLACE VIEW moderation_queue_stats AS
		 SELECT content_type, status, COUNT(*) AS total
		 FROM moderation_items
		 GROUP BY content_type, status;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
