// FILE: internal/model/subscription_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Slug         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	MonthlyPrice float64   `gorm:"type:decimal(10,2);not null"`
	UserLimit    int       `gorm:"not null;default:5"`
	StorageGb    int       `gorm:"not null;default:10"`
	IsActive     bool      `gorm:"default:true"`
	SortOrder    int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Plan) TableName() string {
	return "plans"
}

type Subscription struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status          string     `gorm:"type:subscription_status;not null;index"`
	StartDate       time.Time  `gorm:"not null"`
	RenewalDate     *time.Time
	NextBillingDate *time.Time
	CanceledAt      *time.Time `gorm:"index"`
	BillingOrderId  *string    `gorm:"type:varchar(255);index"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionDetailRow is the scan target for the joined detailed read
// (vw_subscription_details). Not a managed table.
type SubscriptionDetailRow struct {
	Id              uuid.UUID
	CompanyId       uuid.UUID
	CompanyName     string
	PlanId          uuid.UUID
	PlanName        string
	MonthlyPrice    float64
	Status          string
	StartDate       time.Time
	CanceledAt      *time.Time
	NextBillingDate *time.Time
}
