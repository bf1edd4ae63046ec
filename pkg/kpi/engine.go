// FILE: pkg/kpi/engine.go
// The metrics engine. Every function here is deterministic and
// side-effect-free: identical inputs always produce identical outputs, and
// time enters only through the explicit asOf/window parameters. Caching of
// computed snapshots is the calling layer's concern.
package kpi

import "time"

// Snapshot is the derived KPI set for one evaluation. Never persisted,
// always recomputed from the record set.
type Snapshot struct {
	MRR       float64 `json:"mrr"`
	ARR       float64 `json:"arr"`
	AvgTicket float64 `json:"avg_ticket"`
	ChurnRate Ratio   `json:"churn_rate"`
	LTV       LTV     `json:"ltv"`

	TotalSubscriptions int `json:"total_subscriptions"`
	ActiveCount        int `json:"active_count"`
	TrialCount         int `json:"trial_count"`
	CanceledCount      int `json:"canceled_count"`

	Period string    `json:"period"`
	AsOf   time.Time `json:"as_of"`
}

// ComputeMRR sums monthly prices over subscriptions active as of asOf.
// No other status contributes recurring revenue. A negative price is a
// DataIntegrity error, never clamped.
func ComputeMRR(records []SubscriptionRecord, asOf time.Time) (float64, error) {
	if err := validateRecords(records); err != nil {
		return 0, err
	}
	var mrr float64
	for _, r := range records {
		if r.activeAt(asOf) {
			mrr += r.MonthlyPrice
		}
	}
	return mrr, nil
}

// ComputeARR is MRR x 12 exactly. No seasonality adjustment.
func ComputeARR(mrr float64) float64 {
	return mrr * 12
}

// ComputeChurnRate computes canceled-in-window over active-at-window-start.
// A zero baseline yields the UndefinedBase sentinel, not NaN and not a fault.
func ComputeChurnRate(records []SubscriptionRecord, windowStart, windowEnd time.Time) (Ratio, error) {
	if err := validateRecords(records); err != nil {
		return Ratio{}, err
	}
	var base, churned int
	for _, r := range records {
		if r.activeAt(windowStart) {
			base++
		}
		if r.canceledWithin(windowStart, windowEnd) {
			churned++
		}
	}
	if base == 0 {
		return UndefinedRatio(), nil
	}
	return DefinedRatio(float64(churned) / float64(base)), nil
}

// ComputeLTV approximates lifetime value as avgTicket / churnRate. Zero or
// undefined churn yields the Unbounded sentinel instead of a divide-by-zero.
func ComputeLTV(avgTicket float64, churn Ratio) LTV {
	if churn.UndefinedBase || churn.Value == 0 {
		return UnboundedLTV()
	}
	return DefinedLTV(avgTicket / churn.Value)
}

// ComputeAvgTicket is the arithmetic mean of monthly price over active
// subscriptions, 0 for the empty set.
func ComputeAvgTicket(records []SubscriptionRecord, asOf time.Time) (float64, error) {
	if err := validateRecords(records); err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, r := range records {
		if r.activeAt(asOf) {
			sum += r.MonthlyPrice
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// ComputeSnapshot aggregates the full KPI set in one pass. The churn window
// is the trailing calendar month ending at asOf.
func ComputeSnapshot(records []SubscriptionRecord, asOf time.Time) (Snapshot, error) {
	if err := validateRecords(records); err != nil {
		return Snapshot{}, err
	}

	mrr, _ := ComputeMRR(records, asOf)
	avgTicket, _ := ComputeAvgTicket(records, asOf)
	churn, _ := ComputeChurnRate(records, asOf.AddDate(0, -1, 0), asOf)

	snap := Snapshot{
		MRR:       mrr,
		ARR:       ComputeARR(mrr),
		AvgTicket: avgTicket,
		ChurnRate: churn,
		LTV:       ComputeLTV(avgTicket, churn),
		Period:    GranularityMonth.Label(asOf),
		AsOf:      asOf,
	}

	for _, r := range records {
		snap.TotalSubscriptions++
		switch {
		case r.activeAt(asOf):
			snap.ActiveCount++
		case r.Status == StatusTrial:
			snap.TrialCount++
		case r.Status == StatusCanceled:
			snap.CanceledCount++
		}
	}
	return snap, nil
}

// RevenueByPlan sums active recurring revenue per plan name. Used for the
// dashboard bar chart; canceled subscriptions are excluded.
func RevenueByPlan(records []SubscriptionRecord, asOf time.Time) (map[string]float64, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, r := range records {
		if r.activeAt(asOf) {
			out[r.PlanName] += r.MonthlyPrice
		}
	}
	return out, nil
}

// MRRGrowth is (current - previous) / previous, with an undefined base when
// the previous period had no revenue.
func MRRGrowth(current, previous float64) Ratio {
	if previous == 0 {
		return UndefinedRatio()
	}
	return DefinedRatio((current - previous) / previous)
}

// EstimateCustomerLTV is the per-row estimated lifetime value used by the
// export report: months as a paying customer times monthly price. Canceled
// subscriptions count up to their cancellation; the result is floored at 0.
func EstimateCustomerLTV(r SubscriptionRecord, asOf time.Time) float64 {
	end := asOf
	if r.Status == StatusCanceled && r.CanceledAt != nil && r.CanceledAt.Before(asOf) {
		end = *r.CanceledAt
	}
	days := end.Sub(r.StartDate).Hours() / 24
	if days < 0 {
		return 0
	}
	return (days / 30) * r.MonthlyPrice
}
