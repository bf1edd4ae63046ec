package mapper

import (
	"encoding/json"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/model"

	"gorm.io/datatypes"
)

type AlertEventMapper struct{}

func NewAlertEventMapper() *AlertEventMapper {
	return &AlertEventMapper{}
}

func (m *AlertEventMapper) ToEntity(a *model.AlertEvent) *entity.AlertEvent {
	if a == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(a.Metadata) > 0 {
		_ = json.Unmarshal(a.Metadata, &meta)
	}
	return &entity.AlertEvent{
		Id:          a.Id,
		Severity:    a.Severity,
		Metric:      a.Metric,
		Message:     a.Message,
		Value:       a.Value,
		Threshold:   a.Threshold,
		EvaluatedAt: a.EvaluatedAt,
		Metadata:    meta,
	}
}

func (m *AlertEventMapper) ToModel(a *entity.AlertEvent) *model.AlertEvent {
	if a == nil {
		return nil
	}
	var meta datatypes.JSON
	if a.Metadata != nil {
		raw, err := json.Marshal(a.Metadata)
		if err == nil {
			meta = raw
		}
	}
	return &model.AlertEvent{
		Id:          a.Id,
		Severity:    a.Severity,
		Metric:      a.Metric,
		Message:     a.Message,
		Value:       a.Value,
		Threshold:   a.Threshold,
		EvaluatedAt: a.EvaluatedAt,
		Metadata:    meta,
	}
}
