package implementation

import (
	"context"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/mapper"
	"datacloud-analytics-be/internal/model"
	"datacloud-analytics-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AlertRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AlertEventMapper
}

func NewAlertRepository(db *gorm.DB) contract.AlertRepository {
	return &AlertRepositoryImpl{
		db:     db,
		mapper: mapper.NewAlertEventMapper(),
	}
}

func (r *AlertRepositoryImpl) RecordEvents(ctx context.Context, events []*entity.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]*model.AlertEvent, len(events))
	for i, e := range events {
		models[i] = r.mapper.ToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *AlertRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*entity.AlertEvent, error) {
	var models []*model.AlertEvent
	err := r.db.WithContext(ctx).
		Order("evaluated_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.AlertEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
