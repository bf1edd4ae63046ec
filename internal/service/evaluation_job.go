// FILE: internal/service/evaluation_job.go
// Periodic evaluation scheduler. Dashboards stay fresh even when nothing
// mutates: every interval the cache is dropped, the snapshot recomputed and
// the alert pipeline re-run.
package service

import (
	"context"
	"time"

	"datacloud-analytics-be/internal/pkg/logger"

	"github.com/go-co-op/gocron"
)

type EvaluationJob struct {
	scheduler *gocron.Scheduler
	metrics   MetricsService
	alerts    AlertService
	interval  time.Duration
	logger    logger.ILogger
}

func NewEvaluationJob(metrics MetricsService, alerts AlertService, intervalMinutes int, log logger.ILogger) *EvaluationJob {
	if intervalMinutes < 1 {
		intervalMinutes = 15
	}
	return &EvaluationJob{
		scheduler: gocron.NewScheduler(time.UTC),
		metrics:   metrics,
		alerts:    alerts,
		interval:  time.Duration(intervalMinutes) * time.Minute,
		logger:    log,
	}
}

// Start registers the job and runs the scheduler in the background. The
// first run fires immediately so a fresh deployment has alert state before
// the first interval elapses.
func (j *EvaluationJob) Start() error {
	_, err := j.scheduler.Every(j.interval).StartImmediately().Do(j.run)
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	j.logger.Info("Scheduler", "Evaluation job started", map[string]interface{}{
		"interval": j.interval.String(),
	})
	return nil
}

func (j *EvaluationJob) Stop() {
	j.scheduler.Stop()
}

func (j *EvaluationJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	j.metrics.InvalidateCache()

	alerts, err := j.alerts.EvaluateCurrent(ctx)
	if err != nil {
		j.logger.Error("Scheduler", "Scheduled evaluation failed", map[string]interface{}{"error": err.Error()})
		return
	}

	j.logger.Info("Scheduler", "Scheduled evaluation completed", map[string]interface{}{
		"alerts": len(alerts),
	})
}
