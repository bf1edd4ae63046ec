package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/repository/specification"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SubscriptionRepository())
	assert.NotNil(t, uow.CompanyRepository())
	assert.NotNil(t, uow.AlertRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Detailed Subscription Read", func(t *testing.T) {
		rows, err := uow.SubscriptionRepository().ListDetailed(context.Background(),
			specification.StartedOnOrBefore{AsOf: time.Now()},
		)
		assert.NoError(t, err)
		t.Logf("Detailed rows: %d", len(rows))
	})

	t.Run("Check Transactional Company Subscription", func(t *testing.T) {
		ctx := context.Background()

		// A plan is required reference data for the subscription FK.
		planId := uuid.New()
		plan := &entity.Plan{
			Id:           planId,
			Name:         "Integration Plan",
			Slug:         "integration-plan-" + uuid.New().String(),
			MonthlyPrice: 149.90,
			IsActive:     true,
		}
		err := uow.SubscriptionRepository().CreatePlan(ctx, plan)
		assert.NoError(t, err)

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		companyId := uuid.New()
		company := &entity.Company{
			Id:        companyId,
			LegalName: "Integration Test Ltda",
			TaxId:     fmt.Sprintf("%014d", time.Now().UnixNano()%100000000000000),
			Email:     "test-integration-" + uuid.New().String() + "@example.com",
		}
		err = uow.CompanyRepository().Create(ctx, company)
		assert.NoError(t, err)

		sub := &entity.Subscription{
			Id:        uuid.New(),
			CompanyId: companyId,
			PlanId:    planId,
			Status:    entity.SubscriptionStatusActive,
			StartDate: time.Now(),
		}
		err = uow.SubscriptionRepository().Create(ctx, sub)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Company with Subscription in Transaction")
	})

	t.Run("Check Alert Event Log", func(t *testing.T) {
		ctx := context.Background()
		err := uow.AlertRepository().RecordEvents(ctx, []*entity.AlertEvent{
			{
				Id:          uuid.New(),
				Severity:    "warning",
				Metric:      "churn_rate",
				Message:     "integration test event",
				Value:       0.06,
				Threshold:   0.05,
				EvaluatedAt: time.Now(),
			},
		})
		assert.NoError(t, err)

		recent, err := uow.AlertRepository().ListRecent(ctx, 5)
		assert.NoError(t, err)
		assert.NotEmpty(t, recent)
	})
}
