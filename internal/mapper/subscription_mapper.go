package mapper

import (
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		MonthlyPrice: p.MonthlyPrice,
		UserLimit:    p.UserLimit,
		StorageGb:    p.StorageGb,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		MonthlyPrice: p.MonthlyPrice,
		UserLimit:    p.UserLimit,
		StorageGb:    p.StorageGb,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:              s.Id,
		CompanyId:       s.CompanyId,
		PlanId:          s.PlanId,
		Status:          entity.SubscriptionStatus(s.Status),
		StartDate:       s.StartDate,
		RenewalDate:     s.RenewalDate,
		NextBillingDate: s.NextBillingDate,
		CanceledAt:      s.CanceledAt,
		BillingOrderId:  s.BillingOrderId,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:              s.Id,
		CompanyId:       s.CompanyId,
		PlanId:          s.PlanId,
		Status:          string(s.Status),
		StartDate:       s.StartDate,
		RenewalDate:     s.RenewalDate,
		NextBillingDate: s.NextBillingDate,
		CanceledAt:      s.CanceledAt,
		BillingOrderId:  s.BillingOrderId,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) DetailRowToRecord(r *model.SubscriptionDetailRow) *entity.SubscriptionRecord {
	if r == nil {
		return nil
	}
	return &entity.SubscriptionRecord{
		SubscriptionId:  r.Id,
		CompanyId:       r.CompanyId,
		CompanyName:     r.CompanyName,
		PlanId:          r.PlanId,
		PlanName:        r.PlanName,
		MonthlyPrice:    r.MonthlyPrice,
		Status:          entity.SubscriptionStatus(r.Status),
		StartDate:       r.StartDate,
		CanceledAt:      r.CanceledAt,
		NextBillingDate: r.NextBillingDate,
	}
}
