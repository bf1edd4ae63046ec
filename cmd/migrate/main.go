package main

import (
	"log"
	"os"

	"datacloud-analytics-be/internal/model"
	"datacloud-analytics-be/pkg/database"

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

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'subscription_status') THEN CREATE TYPE subscription_status AS ENUM ('active', 'canceled', 'trial', 'inactive'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('admin', 'viewer'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Company{},
		&model.Plan{},
		&model.Subscription{},
		&model.User{},
		&model.AlertEvent{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views & Indexes
	log.Println("Step 3: Creating Views and Indexes...")

	postMigrationSQL := []string{
		// View: the joined detail read, kept in SQL so analysts can query the
		// same shape the API serves.
		`CREATE OR REPLACE VIEW vw_subscription_details AS
		 SELECT s.id AS subscription_id,
		        s.company_id,
		        c.legal_name AS company_name,
		        s.plan_id,
		        p.name AS plan_name,
		        p.monthly_price,
		        s.status,
		        s.start_date,
		        s.canceled_at,
		        s.next_billing_date
		 FROM subscriptions s
		 JOIN plans p ON s.plan_id = p.id
		 JOIN companies c ON s.company_id = c.id;`,

		`CREATE INDEX IF NOT EXISTS idx_subscriptions_status ON subscriptions (status);`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_start_date ON subscriptions (start_date);`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_evaluated_at ON alert_events (evaluated_at DESC);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
