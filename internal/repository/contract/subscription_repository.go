package contract

import (
	"context"
	"time"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.Plan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)

	// Subscriptions
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListDetailed is the joined subscriptions/plans/companies read consumed
	// by the metrics engine. A single query, so one call sees one consistent
	// point-in-time snapshot. Pass StartedOnOrBefore to bound by asOf.
	ListDetailed(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionRecord, error)

	// Dashboard aggregates
	CountByPlan(ctx context.Context) ([]*entity.PlanCount, error)
	MarkCanceled(ctx context.Context, orderId string, canceledAt time.Time) (*entity.Subscription, error)
}
