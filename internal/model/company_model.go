// FILE: internal/model/company_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LegalName string    `gorm:"type:varchar(255);not null"`
	TaxId     string    `gorm:"type:varchar(14);uniqueIndex;not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Phone     *string   `gorm:"type:varchar(32)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Company) TableName() string {
	return "companies"
}
