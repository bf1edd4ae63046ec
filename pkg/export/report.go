// FILE: pkg/export/report.go
// Report row and summary types shared by the CSV and Excel writers.
package export

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionRow is one line of the detailed subscription report, including
// the per-row estimated lifetime value column.
type SubscriptionRow struct {
	SubscriptionId  uuid.UUID
	Company         string
	Plan            string
	MonthlyPrice    float64
	Status          string
	StartDate       time.Time
	NextBillingDate *time.Time
	EstimatedLTV    float64
}

// Summary is the aggregate block appended to exports.
type Summary struct {
	TotalSubscriptions int
	ActiveCount        int
	CanceledCount      int
	MRR                float64
	AvgTicket          float64
	ChurnPct           float64
	GeneratedAt        time.Time
}

var columns = []string{
	"Subscription ID",
	"Company",
	"Plan",
	"Monthly Price",
	"Status",
	"Start Date",
	"Next Billing",
	"Estimated LTV",
}
