package events

import "time"

// Event type codes published on the NATS bus.
const (
	TypeAlertTriggered      = "ALERT_TRIGGERED"
	TypeSnapshotComputed    = "SNAPSHOT_COMPUTED"
	TypeSubscriptionChanged = "SUBSCRIPTION_CHANGED"
	TypeExportGenerated     = "EXPORT_GENERATED"
)

// NewAlertTriggeredEvent is emitted once per evaluation run that produced
// at least one warning or critical alert.
func NewAlertTriggeredEvent(severity, metric, message string, value, threshold float64) Event {
	return BaseEvent{
		Type: TypeAlertTriggered,
		Data: map[string]interface{}{
			"severity":  severity,
			"metric":    metric,
			"message":   message,
			"value":     value,
			"threshold": threshold,
		},
		OccurredAt: time.Now(),
	}
}

func NewSnapshotComputedEvent(mrr, arr, churnRate float64, activeCount int) Event {
	return BaseEvent{
		Type: TypeSnapshotComputed,
		Data: map[string]interface{}{
			"mrr":          mrr,
			"arr":          arr,
			"churn_rate":   churnRate,
			"active_count": activeCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionChangedEvent(subscriptionId, status string) Event {
	return BaseEvent{
		Type: TypeSubscriptionChanged,
		Data: map[string]interface{}{
			"subscription_id": subscriptionId,
			"status":          status,
		},
		OccurredAt: time.Now(),
	}
}

func NewExportGeneratedEvent(format, filename string, rows int) Event {
	return BaseEvent{
		Type: TypeExportGenerated,
		Data: map[string]interface{}{
			"format":   format,
			"filename": filename,
			"rows":     rows,
		},
		OccurredAt: time.Now(),
	}
}
