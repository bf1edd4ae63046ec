// FILE: internal/entity/company_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company owns zero or more subscriptions. Used for enrichment and display
// only, never for KPI math.
type Company struct {
	Id        uuid.UUID
	LegalName string
	TaxId     string // unique, 14 digits
	Email     string
	Phone     *string
	CreatedAt time.Time
}
