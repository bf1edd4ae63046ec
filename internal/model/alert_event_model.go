// FILE: internal/model/alert_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AlertEvent struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Severity    string         `gorm:"type:varchar(20);not null;index"`
	Metric      string         `gorm:"type:varchar(50);not null;index"`
	Message     string         `gorm:"type:text;not null"`
	Value       float64        `gorm:"type:decimal(14,4);not null"`
	Threshold   float64        `gorm:"type:decimal(14,4);not null"`
	EvaluatedAt time.Time      `gorm:"not null;index"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}

func (AlertEvent) TableName() string {
	return "alert_events"
}
