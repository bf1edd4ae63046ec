package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column names are qualified because the detailed read joins three tables.

// ByStatus filters subscriptions by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscriptions.status = ?", s.Status)
}

// ByPlanID filters subscriptions by plan.
type ByPlanID struct {
	PlanID uuid.UUID
}

func (s ByPlanID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscriptions.plan_id = ?", s.PlanID)
}

// ByPlanSlug filters the joined read by plan slug.
type ByPlanSlug struct {
	Slug string
}

func (s ByPlanSlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plans.slug = ?", s.Slug)
}

// StartedOnOrBefore bounds the detailed read to subscriptions that existed
// at asOf, so historical evaluations see a stable population.
type StartedOnOrBefore struct {
	AsOf time.Time
}

func (s StartedOnOrBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscriptions.start_date <= ?", s.AsOf)
}
