// FILE: internal/service/export_service.go
// Builds the downloadable subscription reports. The same detailed read feeds
// both formats, so the CSV and the workbook always agree row for row.
package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/repository/specification"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/pkg/events"
	"datacloud-analytics-be/pkg/export"
	"datacloud-analytics-be/pkg/kpi"
	pktNats "datacloud-analytics-be/pkg/nats"
)

// ExportResult carries the generated file plus the name the controller sets
// on the Content-Disposition header.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        *bytes.Buffer
}

// ExportFilter narrows the report to one status and/or plan, matching the
// filters on the dashboard table. Zero values mean no filter.
type ExportFilter struct {
	Status   string
	PlanSlug string
}

type IExportService interface {
	GenerateCSV(ctx context.Context, filter ExportFilter) (*ExportResult, error)
	GenerateExcel(ctx context.Context, filter ExportFilter) (*ExportResult, error)
}

type exportService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewExportService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IExportService {
	return &exportService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *exportService) GenerateCSV(ctx context.Context, filter ExportFilter) (*ExportResult, error) {
	rows, _, err := s.buildReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		return nil, err
	}

	filename := reportFilename("csv")
	s.publishGenerated(ctx, "csv", filename, len(rows))
	return &ExportResult{
		Filename:    filename,
		ContentType: "text/csv; charset=utf-8",
		Data:        &buf,
	}, nil
}

func (s *exportService) GenerateExcel(ctx context.Context, filter ExportFilter) (*ExportResult, error) {
	rows, summary, err := s.buildReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	buf, err := export.WriteExcelBuffer(rows, summary)
	if err != nil {
		return nil, err
	}

	filename := reportFilename("xlsx")
	s.publishGenerated(ctx, "xlsx", filename, len(rows))
	return &ExportResult{
		Filename:    filename,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf,
	}, nil
}

// buildReport fetches the detailed read once and derives both the row set
// and the summary block from that single consistent view.
func (s *exportService) buildReport(ctx context.Context, filter ExportFilter) ([]export.SubscriptionRow, export.Summary, error) {
	now := time.Now()

	specs := []specification.Specification{specification.StartedOnOrBefore{AsOf: now}}
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}
	if filter.PlanSlug != "" {
		specs = append(specs, specification.ByPlanSlug{Slug: filter.PlanSlug})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	detailed, err := uow.SubscriptionRepository().ListDetailed(ctx, specs...)
	if err != nil {
		return nil, export.Summary{}, err
	}

	records := toEngineRecords(detailed)
	snap, err := kpi.ComputeSnapshot(records, now)
	if err != nil {
		return nil, export.Summary{}, err
	}

	rows := make([]export.SubscriptionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, export.SubscriptionRow{
			SubscriptionId:  r.SubscriptionId,
			Company:         r.CompanyName,
			Plan:            r.PlanName,
			MonthlyPrice:    r.MonthlyPrice,
			Status:          string(r.Status),
			StartDate:       r.StartDate,
			NextBillingDate: r.NextBillingDate,
			EstimatedLTV:    kpi.EstimateCustomerLTV(r, now),
		})
	}

	churnPct := 0.0
	if !snap.ChurnRate.UndefinedBase {
		churnPct = snap.ChurnRate.Value * 100
	}

	summary := export.Summary{
		TotalSubscriptions: snap.TotalSubscriptions,
		ActiveCount:        snap.ActiveCount,
		CanceledCount:      snap.CanceledCount,
		MRR:                snap.MRR,
		AvgTicket:          snap.AvgTicket,
		ChurnPct:           churnPct,
		GeneratedAt:        now,
	}
	return rows, summary, nil
}

func (s *exportService) publishGenerated(ctx context.Context, format, filename string, rowCount int) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewExportGeneratedEvent(format, filename, rowCount)); err != nil {
		s.logger.Warn("Export", "Failed to publish export event", map[string]interface{}{"error": err.Error()})
	}
}

func reportFilename(ext string) string {
	return fmt.Sprintf("report_%s.%s", time.Now().Format("20060102"), ext)
}
