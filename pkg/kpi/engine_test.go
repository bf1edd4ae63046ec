package kpi

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func record(price float64, status Status, start time.Time) SubscriptionRecord {
	return SubscriptionRecord{
		SubscriptionId: uuid.New(),
		CompanyId:      uuid.New(),
		CompanyName:    "Acme Corp",
		PlanId:         uuid.New(),
		PlanName:       "Pro",
		MonthlyPrice:   price,
		Status:         status,
		StartDate:      start,
	}
}

func canceledRecord(price float64, start, canceledAt time.Time) SubscriptionRecord {
	r := record(price, StatusCanceled, start)
	r.CanceledAt = &canceledAt
	return r
}

func TestComputeMRR(t *testing.T) {
	start := asOf.AddDate(0, -6, 0)
	canceled := asOf.AddDate(0, -2, 0)

	records := []SubscriptionRecord{
		record(100, StatusActive, start),
		canceledRecord(200, start, canceled),
		record(300, StatusActive, start),
	}

	mrr, err := ComputeMRR(records, asOf)
	require.NoError(t, err)
	assert.Equal(t, 400.0, mrr)

	// Order independence
	reversed := []SubscriptionRecord{records[2], records[1], records[0]}
	mrr2, err := ComputeMRR(reversed, asOf)
	require.NoError(t, err)
	assert.Equal(t, mrr, mrr2)
}

func TestComputeMRRExcludesNonActiveStatuses(t *testing.T) {
	start := asOf.AddDate(0, -3, 0)
	records := []SubscriptionRecord{
		record(100, StatusActive, start),
		record(50, StatusTrial, start),
		record(75, StatusInactive, start),
	}
	mrr, err := ComputeMRR(records, asOf)
	require.NoError(t, err)
	assert.Equal(t, 100.0, mrr)
}

func TestComputeMRRNegativePriceRejected(t *testing.T) {
	records := []SubscriptionRecord{
		record(-10, StatusActive, asOf.AddDate(0, -1, 0)),
	}
	_, err := ComputeMRR(records, asOf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	var die *DataIntegrityError
	require.True(t, errors.As(err, &die))
	assert.Equal(t, "monthly_price", die.Field)
}

func TestComputeMRRUnknownStatusRejected(t *testing.T) {
	r := record(10, Status("paused"), asOf.AddDate(0, -1, 0))
	_, err := ComputeMRR([]SubscriptionRecord{r}, asOf)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
}

func TestComputeARRIsTwelveTimesMRR(t *testing.T) {
	mrr := 4321.55
	assert.Equal(t, mrr*12, ComputeARR(mrr))
	assert.Equal(t, 0.0, ComputeARR(0))
}

func TestComputeAvgTicket(t *testing.T) {
	start := asOf.AddDate(0, -6, 0)
	records := []SubscriptionRecord{
		record(100, StatusActive, start),
		canceledRecord(200, start, asOf.AddDate(0, -2, 0)),
		record(300, StatusActive, start),
	}
	avg, err := ComputeAvgTicket(records, asOf)
	require.NoError(t, err)
	assert.Equal(t, 200.0, avg)
}

func TestComputeChurnRate(t *testing.T) {
	windowStart := asOf.AddDate(0, -1, 0)
	start := asOf.AddDate(0, -6, 0)

	records := []SubscriptionRecord{
		record(100, StatusActive, start),
		record(100, StatusActive, start),
		record(100, StatusActive, start),
		canceledRecord(100, start, asOf.AddDate(0, 0, -10)), // inside window
	}

	churn, err := ComputeChurnRate(records, windowStart, asOf)
	require.NoError(t, err)
	assert.False(t, churn.UndefinedBase)
	assert.InDelta(t, 0.25, churn.Value, 1e-9)
}

func TestComputeChurnRateZeroBaselineIsSentinel(t *testing.T) {
	churn, err := ComputeChurnRate(nil, asOf.AddDate(0, -1, 0), asOf)
	require.NoError(t, err)
	assert.True(t, churn.UndefinedBase)
	assert.Equal(t, 0.0, churn.Value)
}

func TestComputeLTV(t *testing.T) {
	ltv := ComputeLTV(100, DefinedRatio(0.1))
	assert.False(t, ltv.Unbounded)
	assert.Equal(t, 1000.0, ltv.Value)

	unbounded := ComputeLTV(100, DefinedRatio(0))
	assert.True(t, unbounded.Unbounded)

	undefBase := ComputeLTV(100, UndefinedRatio())
	assert.True(t, undefBase.Unbounded)
}

func TestComputeSnapshotEmptySet(t *testing.T) {
	snap, err := ComputeSnapshot(nil, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.MRR)
	assert.Equal(t, 0.0, snap.ARR)
	assert.Equal(t, 0.0, snap.AvgTicket)
	assert.True(t, snap.ChurnRate.UndefinedBase)
	assert.True(t, snap.LTV.Unbounded)
	assert.Equal(t, 0, snap.TotalSubscriptions)
}

func TestComputeSnapshotIdempotent(t *testing.T) {
	start := asOf.AddDate(0, -4, 0)
	records := []SubscriptionRecord{
		record(99.90, StatusActive, start),
		record(199.90, StatusActive, start),
		canceledRecord(499.90, start, asOf.AddDate(0, 0, -5)),
		record(99.90, StatusTrial, start),
	}

	first, err := ComputeSnapshot(records, asOf)
	require.NoError(t, err)
	second, err := ComputeSnapshot(records, asOf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeSnapshotCounts(t *testing.T) {
	start := asOf.AddDate(0, -4, 0)
	records := []SubscriptionRecord{
		record(100, StatusActive, start),
		record(100, StatusTrial, start),
		canceledRecord(100, start, asOf.AddDate(0, -2, 0)),
	}
	snap, err := ComputeSnapshot(records, asOf)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalSubscriptions)
	assert.Equal(t, 1, snap.ActiveCount)
	assert.Equal(t, 1, snap.TrialCount)
	assert.Equal(t, 1, snap.CanceledCount)
}

func TestRevenueByPlan(t *testing.T) {
	start := asOf.AddDate(0, -3, 0)
	basic := record(99.90, StatusActive, start)
	basic.PlanName = "Basic"
	pro := record(199.90, StatusActive, start)
	pro.PlanName = "Pro"
	pro2 := record(199.90, StatusActive, start)
	pro2.PlanName = "Pro"
	gone := canceledRecord(499.90, start, asOf.AddDate(0, -1, 0))
	gone.PlanName = "Enterprise"

	rev, err := RevenueByPlan([]SubscriptionRecord{basic, pro, pro2, gone}, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 99.90, rev["Basic"], 1e-9)
	assert.InDelta(t, 399.80, rev["Pro"], 1e-9)
	assert.NotContains(t, rev, "Enterprise")
}

func TestMRRGrowth(t *testing.T) {
	g := MRRGrowth(120, 100)
	assert.False(t, g.UndefinedBase)
	assert.InDelta(t, 0.2, g.Value, 1e-9)

	assert.True(t, MRRGrowth(100, 0).UndefinedBase)
}

func TestEstimateCustomerLTV(t *testing.T) {
	r := record(100, StatusActive, asOf.AddDate(0, 0, -60))
	assert.InDelta(t, 200.0, EstimateCustomerLTV(r, asOf), 1.0)

	// Canceled subscriptions stop accruing at cancellation.
	c := canceledRecord(100, asOf.AddDate(0, 0, -90), asOf.AddDate(0, 0, -60))
	assert.InDelta(t, 100.0, EstimateCustomerLTV(c, asOf), 1.0)

	// Future start dates never go negative.
	f := record(100, StatusActive, asOf.AddDate(0, 1, 0))
	assert.Equal(t, 0.0, EstimateCustomerLTV(f, asOf))
}
