// FILE: pkg/kpi/record.go
// Input types for the metrics engine. Records arrive pre-validated from the
// repository boundary; the engine still rejects values that would corrupt
// every downstream aggregate (negative prices, unknown statuses).
package kpi

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusTrial    Status = "trial"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCanceled, StatusTrial, StatusInactive:
		return true
	}
	return false
}

// SubscriptionRecord is one row of the joined subscriptions/plans/companies
// read. It is an immutable value snapshot: the engine never mutates it and
// never re-fetches it.
type SubscriptionRecord struct {
	SubscriptionId  uuid.UUID
	CompanyId       uuid.UUID
	CompanyName     string
	PlanId          uuid.UUID
	PlanName        string
	MonthlyPrice    float64
	Status          Status
	StartDate       time.Time
	CanceledAt      *time.Time
	NextBillingDate *time.Time
}

// activeAt reports whether the subscription was generating recurring revenue
// at instant t. A canceled subscription was active up to its cancellation
// timestamp; trial and inactive subscriptions never contribute.
func (r SubscriptionRecord) activeAt(t time.Time) bool {
	if r.StartDate.After(t) {
		return false
	}
	switch r.Status {
	case StatusActive:
		return true
	case StatusCanceled:
		return r.CanceledAt != nil && r.CanceledAt.After(t)
	}
	return false
}

// activeWithin reports whether the subscription was active at any point in
// the half-open interval [start, end).
func (r SubscriptionRecord) activeWithin(start, end time.Time) bool {
	if !r.StartDate.Before(end) {
		return false
	}
	switch r.Status {
	case StatusActive:
		return true
	case StatusCanceled:
		return r.CanceledAt != nil && r.CanceledAt.After(start)
	}
	return false
}

// canceledWithin reports whether the subscription transitioned to Canceled
// inside [start, end).
func (r SubscriptionRecord) canceledWithin(start, end time.Time) bool {
	if r.Status != StatusCanceled || r.CanceledAt == nil {
		return false
	}
	return !r.CanceledAt.Before(start) && r.CanceledAt.Before(end)
}

func validateRecords(records []SubscriptionRecord) error {
	for _, r := range records {
		if r.MonthlyPrice < 0 {
			return &DataIntegrityError{
				SubscriptionId: r.SubscriptionId,
				Field:          "monthly_price",
				Value:          r.MonthlyPrice,
				Reason:         "negative price",
			}
		}
		if !r.Status.Valid() {
			return &DataIntegrityError{
				SubscriptionId: r.SubscriptionId,
				Field:          "status",
				Value:          string(r.Status),
				Reason:         "unknown status value",
			}
		}
		if r.StartDate.IsZero() {
			return &DataIntegrityError{
				SubscriptionId: r.SubscriptionId,
				Field:          "start_date",
				Value:          r.StartDate,
				Reason:         "missing start date",
			}
		}
	}
	return nil
}
