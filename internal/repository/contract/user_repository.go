package contract

import (
	"context"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
