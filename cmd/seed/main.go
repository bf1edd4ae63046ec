// Demo data seeder: three plans, a hundred companies with realistic status
// distribution, and two dashboard logins. Idempotent by slug/tax id/email.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"datacloud-analytics-be/internal/model"
	"datacloud-analytics-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	rng := rand.New(rand.NewSource(42)) // reproducible demo data

	plans := seedPlans(db)
	seedCompaniesAndSubscriptions(db, rng, plans)
	seedUsers(db)

	color.Green("✅ Seeding completed")
}

func seedPlans(db *gorm.DB) []model.Plan {
	color.Cyan("Seeding plans...")

	plans := []model.Plan{
		{Name: "Basic", Slug: "basic", MonthlyPrice: 99.90, UserLimit: 5, StorageGb: 10, IsActive: true, SortOrder: 1},
		{Name: "Pro", Slug: "pro", MonthlyPrice: 199.90, UserLimit: 20, StorageGb: 50, IsActive: true, SortOrder: 2},
		{Name: "Enterprise", Slug: "enterprise", MonthlyPrice: 499.90, UserLimit: 100, StorageGb: 500, IsActive: true, SortOrder: 3},
	}

	out := make([]model.Plan, 0, len(plans))
	for _, p := range plans {
		var existing model.Plan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			color.Yellow("Plan '%s' already exists, skipping...", p.Slug)
			out = append(out, existing)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("Error creating plan '%s': %v", p.Slug, err)
		}
		color.Green("Created plan: %s (%.2f/month)", p.Name, p.MonthlyPrice)
		out = append(out, p)
	}
	return out
}

func seedCompaniesAndSubscriptions(db *gorm.DB, rng *rand.Rand, plans []model.Plan) {
	color.Cyan("Seeding companies and subscriptions...")

	var count int64
	db.Model(&model.Company{}).Count(&count)
	if count > 0 {
		color.Yellow("Companies already seeded (%d found), skipping...", count)
		return
	}

	now := time.Now()
	for i := 1; i <= 100; i++ {
		company := model.Company{
			Id:        uuid.New(),
			LegalName: fmt.Sprintf("Company %03d Ltda", i),
			TaxId:     fmt.Sprintf("%014d", 10000000000000+int64(i)),
			Email:     fmt.Sprintf("finance@company%03d.example.com", i),
		}
		if err := db.Create(&company).Error; err != nil {
			log.Fatalf("Error creating company %d: %v", i, err)
		}

		plan := plans[rng.Intn(len(plans))]
		// Status distribution: 70% active, 10% trial, 15% canceled, 5% inactive.
		status := "active"
		switch roll := rng.Intn(100); {
		case roll < 70:
			status = "active"
		case roll < 80:
			status = "trial"
		case roll < 95:
			status = "canceled"
		default:
			status = "inactive"
		}

		// Start somewhere in the last 18 months.
		startDate := now.AddDate(0, 0, -rng.Intn(18*30))

		sub := model.Subscription{
			Id:        uuid.New(),
			CompanyId: company.Id,
			PlanId:    plan.Id,
			Status:    status,
			StartDate: startDate,
		}

		switch status {
		case "active", "trial":
			next := now.AddDate(0, 0, rng.Intn(30)+1)
			sub.NextBillingDate = &next
		case "canceled":
			// Canceled some time after start, never in the future.
			lifetime := int(now.Sub(startDate).Hours() / 24)
			if lifetime < 2 {
				lifetime = 2
			}
			canceledAt := startDate.AddDate(0, 0, rng.Intn(lifetime-1)+1)
			sub.CanceledAt = &canceledAt
		}

		if err := db.Create(&sub).Error; err != nil {
			log.Fatalf("Error creating subscription for company %d: %v", i, err)
		}
	}

	color.Green("Created 100 companies with subscriptions")
}

func seedUsers(db *gorm.DB) {
	color.Cyan("Seeding dashboard users...")

	users := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"Admin", "admin@datacloud.example.com", "admin12345", "admin"},
		{"Viewer", "viewer@datacloud.example.com", "viewer12345", "viewer"},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.email).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error hashing password: %v", err)
		}
		hashStr := string(hash)

		user := model.User{
			Id:           uuid.New(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: &hashStr,
			Role:         u.role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Error creating user '%s': %v", u.email, err)
		}
		color.Green("Created %s user: %s", u.role, u.email)
	}
}
