package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/mapper"
	"datacloud-analytics-be/internal/model"
	"datacloud-analytics-be/internal/repository/contract"
	"datacloud-analytics-be/internal/repository/specification"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db       *gorm.DB
	mapper   *mapper.SubscriptionMapper
	validate *validator.Validate
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:       db,
		mapper:   mapper.NewSubscriptionMapper(),
		validate: validator.New(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Plan Implementation

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *entity.Plan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	var m model.Plan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	var models []*model.Plan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("sort_order ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Plan, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanToEntity(m)
	}
	return entities, nil
}

// Subscription Implementation

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SubscriptionToEntity(m)
	}
	return entities, nil
}

// Count joins plans so join-qualified specifications (plan slug) work the
// same here as on the detailed read.
func (r *SubscriptionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Table("subscriptions").
		Joins("JOIN plans ON subscriptions.plan_id = plans.id")
	query = r.applySpecifications(query, specs...)
	err := query.Count(&count).Error
	return count, err
}

// ListDetailed runs the joined read in a single SELECT so the caller gets one
// consistent point-in-time snapshot. Each row is validated here, once; the
// metrics engine trusts the shape downstream.
func (r *SubscriptionRepositoryImpl) ListDetailed(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionRecord, error) {
	var rows []*model.SubscriptionDetailRow

	query := r.db.WithContext(ctx).Table("subscriptions").
		Select(`
			subscriptions.id,
			subscriptions.company_id,
			companies.legal_name AS company_name,
			subscriptions.plan_id,
			plans.name AS plan_name,
			plans.monthly_price,
			subscriptions.status,
			subscriptions.start_date,
			subscriptions.canceled_at,
			subscriptions.next_billing_date
		`).
		Joins("JOIN plans ON subscriptions.plan_id = plans.id").
		Joins("JOIN companies ON subscriptions.company_id = companies.id")

	query = r.applySpecifications(query, specs...)

	if err := query.Order("subscriptions.start_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]*entity.SubscriptionRecord, len(rows))
	for i, row := range rows {
		rec := r.mapper.DetailRowToRecord(row)
		if err := r.validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("invalid subscription record %s: %w", row.Id, err)
		}
		records[i] = rec
	}
	return records, nil
}

// Dashboard aggregates

func (r *SubscriptionRepositoryImpl) CountByPlan(ctx context.Context) ([]*entity.PlanCount, error) {
	var results []*entity.PlanCount
	err := r.db.WithContext(ctx).Table("subscriptions").
		Select("plans.name AS plan_name, COUNT(*) AS count").
		Joins("JOIN plans ON subscriptions.plan_id = plans.id").
		Group("plans.name").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MarkCanceled flips the subscription identified by its billing order id to
// Canceled, recording the cancellation instant for the churn window.
func (r *SubscriptionRepositoryImpl) MarkCanceled(ctx context.Context, orderId string, canceledAt time.Time) (*entity.Subscription, error) {
	var m model.Subscription
	if err := r.db.WithContext(ctx).Where("billing_order_id = ?", orderId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	m.Status = string(entity.SubscriptionStatusCanceled)
	m.CanceledAt = &canceledAt
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}
