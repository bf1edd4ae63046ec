// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusTrial    SubscriptionStatus = "trial"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// Plan is immutable reference data: price changes create a new plan rather
// than mutating history, keeping historical MRR reproducible.
type Plan struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	MonthlyPrice float64
	UserLimit    int
	StorageGb    int
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
}

// Subscription follows a soft lifecycle: created on signup, status mutated
// by billing events, never physically deleted.
type Subscription struct {
	Id              uuid.UUID
	CompanyId       uuid.UUID
	PlanId          uuid.UUID
	Status          SubscriptionStatus
	StartDate       time.Time
	RenewalDate     *time.Time
	NextBillingDate *time.Time
	CanceledAt      *time.Time
	BillingOrderId  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SubscriptionRecord is the read model of the joined
// subscriptions/plans/companies view. Validated once at the repository
// boundary; the metrics engine never re-validates shape.
type SubscriptionRecord struct {
	SubscriptionId  uuid.UUID          `validate:"required"`
	CompanyId       uuid.UUID          `validate:"required"`
	CompanyName     string             `validate:"required"`
	PlanId          uuid.UUID          `validate:"required"`
	PlanName        string             `validate:"required"`
	MonthlyPrice    float64            `validate:"gte=0"`
	Status          SubscriptionStatus `validate:"required,oneof=active canceled trial inactive"`
	StartDate       time.Time          `validate:"required"`
	CanceledAt      *time.Time
	NextBillingDate *time.Time
}

// PlanCount is the per-plan subscription count aggregate.
type PlanCount struct {
	PlanName string
	Count    int
}
