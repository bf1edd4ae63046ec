// FILE: internal/service/alert_service.go
// Orchestrates one alert evaluation cycle: compute snapshot, run the
// evaluator, persist the outcome, then fan out over NATS, email and the
// websocket hub. The evaluator itself is pure; everything stateful is here.
package service

import (
	"context"
	"time"

	"datacloud-analytics-be/internal/config"
	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/pkg/mailer"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/internal/websocket"
	natsbus "datacloud-analytics-be/pkg/nats"

	"datacloud-analytics-be/pkg/alerting"
	"datacloud-analytics-be/pkg/events"
	"datacloud-analytics-be/pkg/kpi"

	"github.com/google/uuid"
)

type AlertService interface {
	// EvaluateCurrent runs a full evaluation cycle with side effects:
	// persistence, bus events, email and websocket pushes.
	EvaluateCurrent(ctx context.Context) ([]alerting.Alert, error)

	// EvaluateSnapshot runs the pure evaluator only. Used by the overview
	// endpoint which must not spam notification channels on every page load.
	EvaluateSnapshot(snapshot kpi.Snapshot) ([]alerting.Alert, error)

	ListRecent(ctx context.Context, limit int) ([]dto.AlertEventResponse, error)
}

type alertService struct {
	uowFactory unitofwork.RepositoryFactory
	metrics    MetricsService
	goals      config.GoalConfig
	publisher  *natsbus.Publisher
	mailer     mailer.IEmailService
	hub        *websocket.Hub
	alertsTo   string
	logger     logger.ILogger
}

func NewAlertService(
	uowFactory unitofwork.RepositoryFactory,
	metrics MetricsService,
	goals config.GoalConfig,
	publisher *natsbus.Publisher,
	mail mailer.IEmailService,
	hub *websocket.Hub,
	alertsTo string,
	log logger.ILogger,
) AlertService {
	return &alertService{
		uowFactory: uowFactory,
		metrics:    metrics,
		goals:      goals,
		publisher:  publisher,
		mailer:     mail,
		hub:        hub,
		alertsTo:   alertsTo,
		logger:     log,
	}
}

func (s *alertService) evaluatorConfig() alerting.Config {
	return alerting.Config{
		MonthlyRevenueGoal: s.goals.MonthlyRevenueGoal,
		MaxChurnRate:       s.goals.MaxChurnRate,
		MinLTV:             s.goals.MinLTV,
		MaxTrialShare:      s.goals.MaxTrialShare,
	}
}

func (s *alertService) EvaluateSnapshot(snapshot kpi.Snapshot) ([]alerting.Alert, error) {
	return alerting.Evaluate(snapshot, s.evaluatorConfig())
}

func (s *alertService) EvaluateCurrent(ctx context.Context) ([]alerting.Alert, error) {
	snapshot, err := s.metrics.CurrentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	alerts, err := alerting.Evaluate(snapshot, s.evaluatorConfig())
	if err != nil {
		// A ConfigError here means the deployment is misconfigured. Surface
		// it loudly instead of silently evaluating nothing.
		s.logger.Error("Alerts", "Evaluation aborted", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	now := time.Now()
	if err := s.persist(ctx, alerts, now); err != nil {
		s.logger.Error("Alerts", "Failed to persist alert events", map[string]interface{}{"error": err.Error()})
		// Persistence failure does not stop notification fan-out.
	}

	s.fanOut(ctx, snapshot, alerts)
	return alerts, nil
}

func (s *alertService) persist(ctx context.Context, alerts []alerting.Alert, evaluatedAt time.Time) error {
	if len(alerts) == 0 {
		return nil
	}

	rows := make([]*entity.AlertEvent, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, &entity.AlertEvent{
			Id:          uuid.New(),
			Severity:    string(a.Severity),
			Metric:      a.Metric,
			Message:     a.Message,
			Value:       a.Value,
			Threshold:   a.Threshold,
			EvaluatedAt: evaluatedAt,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AlertRepository().RecordEvents(ctx, rows)
}

func (s *alertService) fanOut(ctx context.Context, snapshot kpi.Snapshot, alerts []alerting.Alert) {
	// Snapshot push keeps open dashboards current without polling.
	if s.hub != nil {
		s.hub.Broadcast(websocket.MessageSnapshot, snapshot)
	}

	if s.publisher != nil {
		churn := 0.0
		if !snapshot.ChurnRate.UndefinedBase {
			churn = snapshot.ChurnRate.Value
		}
		if err := s.publisher.Publish(ctx, events.NewSnapshotComputedEvent(
			snapshot.MRR, snapshot.ARR, churn, snapshot.ActiveCount,
		)); err != nil {
			s.logger.Warn("Alerts", "Failed to publish snapshot event", map[string]interface{}{"error": err.Error()})
		}
	}

	var criticalMails []mailer.AlertMail
	for _, a := range alerts {
		if a.Severity == alerting.SeverityInfo {
			continue
		}

		if s.hub != nil {
			s.hub.Broadcast(websocket.MessageAlert, a)
		}

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, events.NewAlertTriggeredEvent(
				string(a.Severity), a.Metric, a.Message, a.Value, a.Threshold,
			)); err != nil {
				s.logger.Warn("Alerts", "Failed to publish alert event", map[string]interface{}{"error": err.Error()})
			}
		}

		if a.Severity == alerting.SeverityCritical {
			criticalMails = append(criticalMails, mailer.AlertMail{
				Severity:  string(a.Severity),
				Metric:    a.Metric,
				Message:   a.Message,
				Value:     a.Value,
				Threshold: a.Threshold,
			})
		}
	}

	if len(criticalMails) > 0 && s.mailer != nil && s.alertsTo != "" {
		if err := s.mailer.SendCriticalAlerts(s.alertsTo, criticalMails); err != nil {
			s.logger.Error("Alerts", "Failed to send critical alert mail", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *alertService) ListRecent(ctx context.Context, limit int) ([]dto.AlertEventResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AlertRepository().ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AlertEventResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AlertEventResponse{
			Id:          r.Id.String(),
			Severity:    r.Severity,
			Metric:      r.Metric,
			Message:     r.Message,
			Value:       r.Value,
			Threshold:   r.Threshold,
			EvaluatedAt: r.EvaluatedAt,
		})
	}
	return out, nil
}
