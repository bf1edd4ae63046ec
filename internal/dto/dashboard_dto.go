// FILE: internal/dto/dashboard_dto.go
package dto

import (
	"time"

	"datacloud-analytics-be/pkg/alerting"
	"datacloud-analytics-be/pkg/kpi"
)

// SnapshotResponse wraps the KPI snapshot with the growth figure the summary
// cards need. Sentinel ratios serialize with their flags so the frontend can
// render "n/a" instead of a bogus number.
type SnapshotResponse struct {
	Snapshot  kpi.Snapshot `json:"snapshot"`
	MRRGrowth kpi.Ratio    `json:"mrr_growth"`
	CachedAt  *time.Time   `json:"cached_at,omitempty"`
}

type TimelineResponse struct {
	Granularity string              `json:"granularity"`
	Points      []kpi.TimelinePoint `json:"points"`
}

type CohortResponse struct {
	Granularity string       `json:"granularity"`
	Cohorts     []kpi.Cohort `json:"cohorts"`
}

type PlanRevenue struct {
	PlanName string  `json:"plan_name"`
	Revenue  float64 `json:"revenue"`
	Count    int     `json:"count"`
}

type RevenueByPlanResponse struct {
	Plans []PlanRevenue `json:"plans"`
}

// OverviewResponse is the single payload the dashboard landing page loads.
type OverviewResponse struct {
	Snapshot      kpi.Snapshot     `json:"snapshot"`
	MRRGrowth     kpi.Ratio        `json:"mrr_growth"`
	RevenueByPlan []PlanRevenue    `json:"revenue_by_plan"`
	Alerts        []alerting.Alert `json:"alerts"`
}

type AlertEventResponse struct {
	Id          string    `json:"id"`
	Severity    string    `json:"severity"`
	Metric      string    `json:"metric"`
	Message     string    `json:"message"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}
