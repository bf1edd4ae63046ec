package unitofwork

import (
	"context"

	"datacloud-analytics-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	CompanyRepository() contract.CompanyRepository
	UserRepository() contract.UserRepository
	AlertRepository() contract.AlertRepository
}
