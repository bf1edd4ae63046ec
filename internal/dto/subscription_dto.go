// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubscriptionRequest struct {
	CompanyId uuid.UUID `json:"company_id" validate:"required"`
	PlanId    uuid.UUID `json:"plan_id" validate:"required"`
	Status    string    `json:"status" validate:"omitempty,oneof=active trial"`
	StartDate time.Time `json:"start_date"`
}

type CancelSubscriptionRequest struct {
	CanceledAt *time.Time `json:"canceled_at"`
}

type SubscriptionResponse struct {
	Id              uuid.UUID  `json:"id"`
	Company         string     `json:"company"`
	Plan            string     `json:"plan"`
	MonthlyPrice    float64    `json:"monthly_price"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	CanceledAt      *time.Time `json:"canceled_at,omitempty"`
	EstimatedLTV    float64    `json:"estimated_ltv"`
}

// SubscriptionListResponse is the paginated detail listing.
type SubscriptionListResponse struct {
	Items      []SubscriptionResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

type SubscriptionFilter struct {
	Status   string `query:"status"`
	PlanSlug string `query:"plan"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type PlanResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	MonthlyPrice float64   `json:"monthly_price"`
	UserLimit    int       `json:"user_limit"`
	StorageGb    int       `json:"storage_gb"`
	IsActive     bool      `json:"is_active"`

	// SubscriberCount is the number of subscriptions on the plan, all
	// statuses included.
	SubscriberCount int `json:"subscriber_count"`
}

type CreateCompanyRequest struct {
	LegalName string  `json:"legal_name" validate:"required"`
	TaxId     string  `json:"tax_id" validate:"required,len=14,numeric"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
}

type CompanyResponse struct {
	Id        uuid.UUID `json:"id"`
	LegalName string    `json:"legal_name"`
	TaxId     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
