// FILE: internal/service/consumer_service.go
// Consumes the in-process refresh topic: every subscription mutation drops
// the cached record set and re-runs the alert evaluation so dashboards and
// notification channels converge without waiting for the next scheduled run.
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	metrics   MetricsService
	alerts    AlertService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	metrics MetricsService,
	alerts AlertService,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		metrics:   metrics,
		alerts:    alerts,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload RefreshMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal refresh message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Refresh triggered: %s (subscription %s)", payload.Reason, payload.SubscriptionId)

	cs.metrics.InvalidateCache()

	if _, err := cs.alerts.EvaluateCurrent(ctx); err != nil {
		log.Printf("[ERROR] Re-evaluation after refresh failed: %v", err)
		msg.Nack() // Retriable: next delivery re-runs the evaluation
		return
	}

	msg.Ack()
}
