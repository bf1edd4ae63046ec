// FILE: internal/service/subscription_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/repository/specification"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/pkg/events"
	"datacloud-analytics-be/pkg/kpi"
	pktNats "datacloud-analytics-be/pkg/nats"

	"github.com/google/uuid"
)

// RefreshMessage is the payload sent on the in-process refresh topic after a
// subscription mutation. The consumer invalidates the metrics cache and
// re-runs the alert evaluation.
type RefreshMessage struct {
	Reason         string    `json:"reason"`
	SubscriptionId uuid.UUID `json:"subscription_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type ISubscriptionService interface {
	List(ctx context.Context, filter dto.SubscriptionFilter) (*dto.SubscriptionListResponse, error)
	Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, subscriptionId uuid.UUID, canceledAt *time.Time) error

	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context) ([]*dto.CompanyResponse, error)
}

type subscriptionService struct {
	uowFactory      unitofwork.RepositoryFactory
	publisher       IPublisherService
	eventPublisher  *pktNats.Publisher
	defaultPageSize int
	logger          logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	defaultPageSize int,
	log logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:      uowFactory,
		publisher:       publisher,
		eventPublisher:  eventPublisher,
		defaultPageSize: defaultPageSize,
		logger:          log,
	}
}

func (s *subscriptionService) List(ctx context.Context, filter dto.SubscriptionFilter) (*dto.SubscriptionListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = s.defaultPageSize
	}

	var specs []specification.Specification
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}
	if filter.PlanSlug != "" {
		specs = append(specs, specification.ByPlanSlug{Slug: filter.PlanSlug})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	countSpecs := make([]specification.Specification, len(specs))
	copy(countSpecs, specs)
	// ByPlanSlug needs the join, so Count runs on the detailed read too.
	total, err := uow.SubscriptionRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs, specification.Pagination{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})

	rows, err := uow.SubscriptionRepository().ListDetailed(ctx, specs...)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]dto.SubscriptionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSubscriptionResponse(row, now))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.SubscriptionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *subscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	company, err := uow.CompanyRepository().FindOne(ctx, specification.ByID{ID: req.CompanyId})
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("company not found")
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan not found")
	}

	status := entity.SubscriptionStatusActive
	if req.Status != "" {
		status = entity.SubscriptionStatus(req.Status)
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	nextBilling := startDate.AddDate(0, 1, 0)

	sub := &entity.Subscription{
		Id:              uuid.New(),
		CompanyId:       req.CompanyId,
		PlanId:          req.PlanId,
		Status:          status,
		StartDate:       startDate,
		NextBillingDate: &nextBilling,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, sub.Id, string(status), "subscription_created")

	record := &entity.SubscriptionRecord{
		SubscriptionId: sub.Id,
		CompanyId:      company.Id,
		CompanyName:    company.LegalName,
		PlanId:         plan.Id,
		PlanName:       plan.Name,
		MonthlyPrice:   plan.MonthlyPrice,
		Status:         status,
		StartDate:      startDate,
	}
	resp := toSubscriptionResponse(record, time.Now())
	return &resp, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, subscriptionId uuid.UUID, canceledAt *time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription not found")
	}
	if sub.Status == entity.SubscriptionStatusCanceled {
		// Cancellation is idempotent; the first timestamp wins.
		return nil
	}

	when := time.Now()
	if canceledAt != nil {
		when = *canceledAt
	}

	sub.Status = entity.SubscriptionStatusCanceled
	sub.CanceledAt = &when
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	s.notifyChange(ctx, sub.Id, string(entity.SubscriptionStatusCanceled), "subscription_canceled")
	return nil
}

// notifyChange publishes the in-process refresh trigger and the durable bus
// event. Failures are logged, never surfaced: the mutation already committed.
func (s *subscriptionService) notifyChange(ctx context.Context, subscriptionId uuid.UUID, status, reason string) {
	if s.publisher != nil {
		payload, _ := json.Marshal(RefreshMessage{
			Reason:         reason,
			SubscriptionId: subscriptionId,
			OccurredAt:     time.Now(),
		})
		if err := s.publisher.Publish(ctx, payload); err != nil {
			s.logger.Warn("Subscriptions", "Failed to publish refresh message", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewSubscriptionChangedEvent(subscriptionId.String(), status)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Subscriptions", "Failed to publish bus event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *subscriptionService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	counts, err := uow.SubscriptionRepository().CountByPlan(ctx)
	if err != nil {
		return nil, err
	}
	countByName := make(map[string]int, len(counts))
	for _, c := range counts {
		countByName[c.PlanName] = c.Count
	}

	var res []*dto.PlanResponse
	for _, p := range plans {
		if !p.IsActive {
			continue
		}
		res = append(res, &dto.PlanResponse{
			Id:              p.Id,
			Name:            p.Name,
			Slug:            p.Slug,
			MonthlyPrice:    p.MonthlyPrice,
			UserLimit:       p.UserLimit,
			StorageGb:       p.StorageGb,
			IsActive:        p.IsActive,
			SubscriberCount: countByName[p.Name],
		})
	}
	return res, nil
}

func (s *subscriptionService) CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CompanyRepository().FindOne(ctx, specification.Filter("tax_id", req.TaxId))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("company with this tax id already exists")
	}

	company := &entity.Company{
		Id:        uuid.New(),
		LegalName: req.LegalName,
		TaxId:     req.TaxId,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := uow.CompanyRepository().Create(ctx, company); err != nil {
		return nil, err
	}

	return toCompanyResponse(company), nil
}

func (s *subscriptionService) ListCompanies(ctx context.Context) ([]*dto.CompanyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	companies, err := uow.CompanyRepository().FindAll(ctx,
		specification.OrderBy{Field: "legal_name"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		res = append(res, toCompanyResponse(c))
	}
	return res, nil
}

func toSubscriptionResponse(row *entity.SubscriptionRecord, now time.Time) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Id:              row.SubscriptionId,
		Company:         row.CompanyName,
		Plan:            row.PlanName,
		MonthlyPrice:    row.MonthlyPrice,
		Status:          string(row.Status),
		StartDate:       row.StartDate,
		NextBillingDate: row.NextBillingDate,
		CanceledAt:      row.CanceledAt,
		EstimatedLTV: kpi.EstimateCustomerLTV(kpi.SubscriptionRecord{
			MonthlyPrice: row.MonthlyPrice,
			Status:       kpi.Status(row.Status),
			StartDate:    row.StartDate,
			CanceledAt:   row.CanceledAt,
		}, now),
	}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		Id:        c.Id,
		LegalName: c.LegalName,
		TaxId:     c.TaxId,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
