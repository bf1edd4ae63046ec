package contract

import (
	"context"

	"datacloud-analytics-be/internal/entity"
)

type AlertRepository interface {
	// RecordEvents appends one evaluation's alerts to the persistent log.
	RecordEvents(ctx context.Context, events []*entity.AlertEvent) error
	ListRecent(ctx context.Context, limit int) ([]*entity.AlertEvent, error)
}
