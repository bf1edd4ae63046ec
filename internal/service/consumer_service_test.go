// FILE: internal/service/consumer_service_test.go
package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/pkg/alerting"
	"datacloud-analytics-be/pkg/kpi"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeMetrics struct {
	invalidations int32
}

func (f *fakeMetrics) GetSnapshot(ctx context.Context, asOf time.Time) (*dto.SnapshotResponse, error) {
	return nil, nil
}
func (f *fakeMetrics) GetTimeline(ctx context.Context, g string) (*dto.TimelineResponse, error) {
	return nil, nil
}
func (f *fakeMetrics) GetCohorts(ctx context.Context, g string) (*dto.CohortResponse, error) {
	return nil, nil
}
func (f *fakeMetrics) GetRevenueByPlan(ctx context.Context) (*dto.RevenueByPlanResponse, error) {
	return nil, nil
}
func (f *fakeMetrics) GetOverview(ctx context.Context) (*dto.OverviewResponse, error) { return nil, nil }
func (f *fakeMetrics) CurrentSnapshot(ctx context.Context) (kpi.Snapshot, error) {
	return kpi.Snapshot{}, nil
}
func (f *fakeMetrics) InvalidateCache() { atomic.AddInt32(&f.invalidations, 1) }

type fakeAlerts struct {
	evaluations int32
	err         error
}

func (f *fakeAlerts) EvaluateCurrent(ctx context.Context) ([]alerting.Alert, error) {
	atomic.AddInt32(&f.evaluations, 1)
	return nil, f.err
}
func (f *fakeAlerts) EvaluateSnapshot(s kpi.Snapshot) ([]alerting.Alert, error) { return nil, nil }
func (f *fakeAlerts) ListRecent(ctx context.Context, limit int) ([]dto.AlertEventResponse, error) {
	return nil, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestConsumer_RefreshInvalidatesAndReevaluates(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	metrics := &fakeMetrics{}
	alerts := &fakeAlerts{}

	cs := NewConsumerService(pubSub, "metrics.refresh", metrics, alerts)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, cs.Consume(ctx))

	payload, _ := json.Marshal(RefreshMessage{
		Reason:         "subscription_created",
		SubscriptionId: uuid.New(),
		OccurredAt:     time.Now(),
	})
	assert.NoError(t, pubSub.Publish("metrics.refresh", message.NewMessage(watermill.NewUUID(), payload)))

	waitFor(t, func() bool {
		return atomic.LoadInt32(&metrics.invalidations) >= 1 && atomic.LoadInt32(&alerts.evaluations) >= 1
	})
}

func TestConsumer_MalformedPayloadIsAcked(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	metrics := &fakeMetrics{}
	alerts := &fakeAlerts{}

	cs := NewConsumerService(pubSub, "metrics.refresh", metrics, alerts)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, cs.Consume(ctx))

	bad := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	assert.NoError(t, pubSub.Publish("metrics.refresh", bad))

	// A malformed message is acked and skipped; the pipeline keeps flowing,
	// so a valid message published after it still gets processed.
	payload, _ := json.Marshal(RefreshMessage{Reason: "after_bad_message", OccurredAt: time.Now()})
	assert.NoError(t, pubSub.Publish("metrics.refresh", message.NewMessage(watermill.NewUUID(), payload)))

	waitFor(t, func() bool {
		return atomic.LoadInt32(&alerts.evaluations) >= 1
	})
	// Only the valid message made it to the evaluator.
	assert.Equal(t, int32(1), atomic.LoadInt32(&alerts.evaluations))
}
