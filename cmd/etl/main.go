// Offline report generator: extracts the detailed subscription read,
// computes the KPI summary, and writes the Excel report to EXPORT_DIR.
// Useful for nightly cron runs without hitting the HTTP API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/pkg/database"
	"datacloud-analytics-be/pkg/export"
	"datacloud-analytics-be/pkg/kpi"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	outputDir := os.Getenv("EXPORT_DIR")
	if outputDir == "" {
		outputDir = "exports"
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	now := time.Now()

	// Extract
	color.Cyan("Extracting subscription data...")
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	detailed, err := uow.SubscriptionRepository().ListDetailed(ctx)
	if err != nil {
		log.Fatalf("Error: extract failed: %v", err)
	}
	color.Green("Extracted %d subscription records", len(detailed))

	// Transform
	color.Cyan("Computing KPIs...")
	records := make([]kpi.SubscriptionRecord, 0, len(detailed))
	for _, row := range detailed {
		records = append(records, kpi.SubscriptionRecord{
			SubscriptionId:  row.SubscriptionId,
			CompanyId:       row.CompanyId,
			CompanyName:     row.CompanyName,
			PlanId:          row.PlanId,
			PlanName:        row.PlanName,
			MonthlyPrice:    row.MonthlyPrice,
			Status:          kpi.Status(row.Status),
			StartDate:       row.StartDate,
			CanceledAt:      row.CanceledAt,
			NextBillingDate: row.NextBillingDate,
		})
	}

	snap, err := kpi.ComputeSnapshot(records, now)
	if err != nil {
		log.Fatalf("Error: snapshot computation failed: %v", err)
	}

	rows := make([]export.SubscriptionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, export.SubscriptionRow{
			SubscriptionId:  r.SubscriptionId,
			Company:         r.CompanyName,
			Plan:            r.PlanName,
			MonthlyPrice:    r.MonthlyPrice,
			Status:          string(r.Status),
			StartDate:       r.StartDate,
			NextBillingDate: r.NextBillingDate,
			EstimatedLTV:    kpi.EstimateCustomerLTV(r, now),
		})
	}

	churnPct := 0.0
	if !snap.ChurnRate.UndefinedBase {
		churnPct = snap.ChurnRate.Value * 100
	}
	summary := export.Summary{
		TotalSubscriptions: snap.TotalSubscriptions,
		ActiveCount:        snap.ActiveCount,
		CanceledCount:      snap.CanceledCount,
		MRR:                snap.MRR,
		AvgTicket:          snap.AvgTicket,
		ChurnPct:           churnPct,
		GeneratedAt:        now,
	}

	// Load
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("Error: cannot create output dir: %v", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("report_%s.xlsx", now.Format("20060102")))
	if err := export.WriteExcelFile(path, rows, summary); err != nil {
		log.Fatalf("Error: workbook write failed: %v", err)
	}

	color.Green("✅ Report written: %s (MRR %.2f, churn %.1f%%)", path, snap.MRR, churnPct)
}
