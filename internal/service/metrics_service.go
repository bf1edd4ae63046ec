// FILE: internal/service/metrics_service.go
// Service orchestrating the metrics engine: fetches the joined subscription
// read, caches it, and delegates all math to pkg/kpi.
package service

import (
	"context"
	"time"

	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/repository/specification"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/pkg/kpi"

	gocache "github.com/patrickmn/go-cache"
)

const recordsCacheKey = "subscription_records"

type MetricsService interface {
	// GetSnapshot computes the KPI set as of the given instant. A zero asOf
	// means now.
	GetSnapshot(ctx context.Context, asOf time.Time) (*dto.SnapshotResponse, error)
	GetTimeline(ctx context.Context, granularity string) (*dto.TimelineResponse, error)
	GetCohorts(ctx context.Context, granularity string) (*dto.CohortResponse, error)
	GetRevenueByPlan(ctx context.Context) (*dto.RevenueByPlanResponse, error)
	GetOverview(ctx context.Context) (*dto.OverviewResponse, error)

	// CurrentSnapshot exposes the raw snapshot for the alert evaluator and
	// the websocket push, bypassing response shaping.
	CurrentSnapshot(ctx context.Context) (kpi.Snapshot, error)

	// InvalidateCache drops the cached record set. Called by the consumer
	// when a subscription changes.
	InvalidateCache()
}

type metricsService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	cacheTTL   time.Duration
	logger     logger.ILogger
}

func NewMetricsService(uowFactory unitofwork.RepositoryFactory, cacheTTLSeconds int, log logger.ILogger) MetricsService {
	ttl := time.Duration(cacheTTLSeconds) * time.Second
	return &metricsService{
		uowFactory: uowFactory,
		cache:      gocache.New(ttl, 2*ttl),
		cacheTTL:   ttl,
		logger:     log,
	}
}

// loadRecords returns the joined subscription read, serving from cache within
// the TTL. One fetch is one consistent point-in-time view; mixing rows from
// different fetches would skew the ratios.
func (s *metricsService) loadRecords(ctx context.Context) ([]kpi.SubscriptionRecord, error) {
	if cached, found := s.cache.Get(recordsCacheKey); found {
		return cached.([]kpi.SubscriptionRecord), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.SubscriptionRepository().ListDetailed(ctx,
		specification.StartedOnOrBefore{AsOf: time.Now()},
	)
	if err != nil {
		return nil, err
	}

	records := toEngineRecords(rows)
	s.cache.Set(recordsCacheKey, records, s.cacheTTL)
	s.logger.Debug("Metrics", "Record set refreshed", map[string]interface{}{"count": len(records)})
	return records, nil
}

func (s *metricsService) InvalidateCache() {
	s.cache.Delete(recordsCacheKey)
}

func (s *metricsService) GetSnapshot(ctx context.Context, asOf time.Time) (*dto.SnapshotResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	snap, err := kpi.ComputeSnapshot(records, asOf)
	if err != nil {
		s.logger.Error("Metrics", "Snapshot computation rejected record set", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	prev, err := kpi.ComputeMRR(records, asOf.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}

	return &dto.SnapshotResponse{
		Snapshot:  snap,
		MRRGrowth: kpi.MRRGrowth(snap.MRR, prev),
	}, nil
}

func (s *metricsService) GetTimeline(ctx context.Context, granularity string) (*dto.TimelineResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	g := kpi.Granularity(granularity)
	if !g.Valid() {
		g = kpi.GranularityMonth
	}

	points, err := kpi.TimelinePoints(records, g, time.Now())
	if err != nil {
		return nil, err
	}

	return &dto.TimelineResponse{
		Granularity: string(g),
		Points:      points,
	}, nil
}

func (s *metricsService) GetCohorts(ctx context.Context, granularity string) (*dto.CohortResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	g := kpi.Granularity(granularity)
	if !g.Valid() {
		g = kpi.GranularityMonth
	}

	cohorts, err := kpi.BuildCohorts(records, g, time.Now())
	if err != nil {
		return nil, err
	}

	return &dto.CohortResponse{
		Granularity: string(g),
		Cohorts:     cohorts,
	}, nil
}

func (s *metricsService) GetRevenueByPlan(ctx context.Context) (*dto.RevenueByPlanResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.revenueByPlan(records)
	if err != nil {
		return nil, err
	}
	return &dto.RevenueByPlanResponse{Plans: plans}, nil
}

func (s *metricsService) GetOverview(ctx context.Context) (*dto.OverviewResponse, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snap, err := kpi.ComputeSnapshot(records, now)
	if err != nil {
		return nil, err
	}
	prev, err := kpi.ComputeMRR(records, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	plans, err := s.revenueByPlan(records)
	if err != nil {
		return nil, err
	}

	return &dto.OverviewResponse{
		Snapshot:      snap,
		MRRGrowth:     kpi.MRRGrowth(snap.MRR, prev),
		RevenueByPlan: plans,
	}, nil
}

func (s *metricsService) CurrentSnapshot(ctx context.Context) (kpi.Snapshot, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return kpi.Snapshot{}, err
	}
	return kpi.ComputeSnapshot(records, time.Now())
}

func (s *metricsService) revenueByPlan(records []kpi.SubscriptionRecord) ([]dto.PlanRevenue, error) {
	now := time.Now()
	revenue, err := kpi.RevenueByPlan(records, now)
	if err != nil {
		return nil, err
	}

	// Count matches the revenue basis: active subscriptions only.
	counts := make(map[string]int)
	for _, r := range records {
		if r.Status == kpi.StatusActive {
			counts[r.PlanName]++
		}
	}

	plans := make([]dto.PlanRevenue, 0, len(revenue))
	for name, total := range revenue {
		plans = append(plans, dto.PlanRevenue{
			PlanName: name,
			Revenue:  total,
			Count:    counts[name],
		})
	}
	return plans, nil
}

// toEngineRecords converts the repository read model into engine inputs.
func toEngineRecords(rows []*entity.SubscriptionRecord) []kpi.SubscriptionRecord {
	records := make([]kpi.SubscriptionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, kpi.SubscriptionRecord{
			SubscriptionId:  row.SubscriptionId,
			CompanyId:       row.CompanyId,
			CompanyName:     row.CompanyName,
			PlanId:          row.PlanId,
			PlanName:        row.PlanName,
			MonthlyPrice:    row.MonthlyPrice,
			Status:          kpi.Status(row.Status),
			StartDate:       row.StartDate,
			CanceledAt:      row.CanceledAt,
			NextBillingDate: row.NextBillingDate,
		})
	}
	return records
}
