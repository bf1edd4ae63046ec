// FILE: internal/service/billing_service_test.go
package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"

	"datacloud-analytics-be/internal/config"
	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
)

// nopLogger satisfies ILogger for services under test.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// stubUowFactory hands out a nil unit of work. Fine for paths that never
// reach the repository layer.
type stubUowFactory struct{}

func (stubUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return nil }

func signNotification(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func TestHandleNotification_SignatureVerification(t *testing.T) {
	const serverKey = "SB-Mid-server-testkey"

	svc := NewBillingService(stubUowFactory{}, nil, config.BillingConfig{ServerKey: serverKey}, "http://localhost:5173", nopLogger{})

	tests := []struct {
		name    string
		req     *dto.BillingWebhookRequest
		wantErr string
	}{
		{
			name: "valid signature with pending status is a no-op",
			req: &dto.BillingWebhookRequest{
				OrderId:           "order-123",
				StatusCode:        "201",
				GrossAmount:       "199.90",
				TransactionStatus: "pending",
				SignatureKey:      signNotification("order-123", "201", "199.90", serverKey),
			},
		},
		{
			name: "tampered gross amount is rejected",
			req: &dto.BillingWebhookRequest{
				OrderId:           "order-123",
				StatusCode:        "200",
				GrossAmount:       "1.00",
				TransactionStatus: "settlement",
				SignatureKey:      signNotification("order-123", "200", "199.90", serverKey),
			},
			wantErr: "invalid signature",
		},
		{
			name: "missing signature is rejected",
			req: &dto.BillingWebhookRequest{
				OrderId:           "order-123",
				StatusCode:        "200",
				GrossAmount:       "199.90",
				TransactionStatus: "settlement",
			},
			wantErr: "invalid signature",
		},
		{
			name: "unknown transaction status is ignored",
			req: &dto.BillingWebhookRequest{
				OrderId:           "order-456",
				StatusCode:        "200",
				GrossAmount:       "99.90",
				TransactionStatus: "refund_requested",
				SignatureKey:      signNotification("order-456", "200", "99.90", serverKey),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.HandleNotification(context.Background(), tt.req)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHandleNotification_MissingServerKey(t *testing.T) {
	svc := NewBillingService(stubUowFactory{}, nil, config.BillingConfig{}, "", nopLogger{})

	err := svc.HandleNotification(context.Background(), &dto.BillingWebhookRequest{
		OrderId:           "order-123",
		TransactionStatus: "settlement",
	})
	assert.EqualError(t, err, "server configuration error")
}
