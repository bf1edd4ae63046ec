// FILE: internal/service/billing_service.go
// Billing gateway integration. Checkout creates a pending order with the
// gateway; the webhook drives subscription status from gateway notifications.
// Cancellation notifications feed the churn metric through CanceledAt.
package service

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"time"

	"datacloud-analytics-be/internal/config"
	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/repository/specification"
	"datacloud-analytics-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IBillingService interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.BillingWebhookRequest) error
}

type billingService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	cfg        config.BillingConfig
	clientURL  string
	logger     logger.ILogger
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	cfg config.BillingConfig,
	clientURL string,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory: uowFactory,
		publisher:  publisher,
		cfg:        cfg,
		clientURL:  clientURL,
		logger:     log,
	}
}

func (s *billingService) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
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

	// The subscription starts inactive and the webhook activates it on
	// settlement. The order id ties the two together.
	orderId := uuid.New().String()
	now := time.Now()
	sub := &entity.Subscription{
		Id:             uuid.New(),
		CompanyId:      company.Id,
		PlanId:         plan.Id,
		Status:         entity.SubscriptionStatusInactive,
		StartDate:      now,
		BillingOrderId: &orderId,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.cfg.Environment == "production" {
		env = midtrans.Production
	}
	sClient.New(s.cfg.ServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: int64(plan.MonthlyPrice),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/billing?payment=success", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: company.LegalName,
			Email: company.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: int64(plan.MonthlyPrice),
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		OrderId:     orderId,
		Token:       snapResp.Token,
		RedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *billingService) HandleNotification(ctx context.Context, req *dto.BillingWebhookRequest) error {
	s.logger.Info("Billing", "Processing gateway notification", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	if s.cfg.ServerKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Gateway signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.cfg.ServerKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		s.logger.Warn("Billing", "Signature mismatch on notification", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return fmt.Errorf("invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	switch req.TransactionStatus {
	case "capture", "settlement":
		sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.Filter("billing_order_id", req.OrderId))
		if err != nil {
			return err
		}
		if sub == nil {
			return fmt.Errorf("subscription not found for order %s", req.OrderId)
		}
		if sub.Status == entity.SubscriptionStatusActive {
			// Gateways retry notifications; activation is idempotent.
			return nil
		}
		now := time.Now()
		nextBilling := now.AddDate(0, 1, 0)
		sub.Status = entity.SubscriptionStatusActive
		sub.StartDate = now
		sub.NextBillingDate = &nextBilling
		sub.UpdatedAt = now
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
		s.publishRefresh(ctx, sub.Id, "billing_settlement")

	case "deny", "cancel", "expire":
		sub, err := uow.SubscriptionRepository().MarkCanceled(ctx, req.OrderId, time.Now())
		if err != nil {
			return err
		}
		if sub == nil {
			return fmt.Errorf("subscription not found for order %s", req.OrderId)
		}
		s.publishRefresh(ctx, sub.Id, "billing_failure")

	case "pending":
		// No state change until the gateway settles or expires the order.
		return nil

	default:
		s.logger.Warn("Billing", "Unknown transaction status ignored", map[string]interface{}{
			"status": req.TransactionStatus,
		})
		return nil
	}

	return nil
}

func (s *billingService) publishRefresh(ctx context.Context, subscriptionId uuid.UUID, reason string) {
	if s.publisher == nil {
		return
	}
	payload, _ := json.Marshal(RefreshMessage{
		Reason:         reason,
		SubscriptionId: subscriptionId,
		OccurredAt:     time.Now(),
	})
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("Billing", "Failed to publish refresh message", map[string]interface{}{"error": err.Error()})
	}
}
