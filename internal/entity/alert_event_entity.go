// FILE: internal/entity/alert_event_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AlertEvent is the persisted log of an emitted alert. The evaluator itself
// stays stateless; this log exists so the calling layer can implement
// "already notified" suppression and the dashboard can show history.
type AlertEvent struct {
	Id          uuid.UUID
	Severity    string
	Metric      string
	Message     string
	Value       float64
	Threshold   float64
	EvaluatedAt time.Time
	Metadata    map[string]interface{}
}
