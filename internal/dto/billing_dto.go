// FILE: internal/dto/billing_dto.go
package dto

import "github.com/google/uuid"

// BillingWebhookRequest mirrors the midtrans HTTP notification payload.
// Amounts arrive as strings on the wire.
type BillingWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	TransactionId     string `json:"transaction_id"`
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

type CheckoutRequest struct {
	CompanyId uuid.UUID `json:"company_id" validate:"required"`
	PlanId    uuid.UUID `json:"plan_id" validate:"required"`
}

type CheckoutResponse struct {
	OrderId     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectUrl string `json:"redirect_url"`
}
