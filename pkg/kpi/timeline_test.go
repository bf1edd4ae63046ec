package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimelineDensePeriods(t *testing.T) {
	// Subscription active only during February: three monthly periods, zeros
	// at the edges, February reflecting the price.
	end := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	sub := canceledRecord(150,
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
	)
	// A second record anchors the timeline at January without revenue.
	anchor := record(0, StatusInactive, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	points, err := TimelinePoints([]SubscriptionRecord{sub, anchor}, GranularityMonth, end)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2025-01", points[0].Period.Label)
	assert.Equal(t, 0.0, points[0].Snapshot.MRR)

	assert.Equal(t, "2025-02", points[1].Period.Label)
	assert.Equal(t, 150.0, points[1].Snapshot.MRR)
	assert.Equal(t, 1, points[1].Snapshot.ActiveCount)

	assert.Equal(t, "2025-03", points[2].Period.Label)
	assert.Equal(t, 0.0, points[2].Snapshot.MRR)
}

func TestBuildTimelineRestartable(t *testing.T) {
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	records := []SubscriptionRecord{
		record(100, StatusActive, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}

	seq, err := BuildTimeline(records, GranularityMonth, end)
	require.NoError(t, err)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	first := count()
	second := count()
	assert.Equal(t, 4, first)
	assert.Equal(t, first, second)
}

func TestBuildTimelineEarlyBreak(t *testing.T) {
	end := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	records := []SubscriptionRecord{
		record(100, StatusActive, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	seq, err := BuildTimeline(records, GranularityMonth, end)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestBuildTimelineEmptyRecords(t *testing.T) {
	points, err := TimelinePoints(nil, GranularityMonth, time.Now())
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestBuildTimelineRejectsBadData(t *testing.T) {
	bad := record(-5, StatusActive, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err := BuildTimeline([]SubscriptionRecord{bad}, GranularityMonth, time.Now())
	assert.Error(t, err)
}

func TestGranularityQuarter(t *testing.T) {
	nov := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-Q4", GranularityQuarter.Label(nov))
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), GranularityQuarter.PeriodStart(nov))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), GranularityQuarter.Next(nov))

	assert.Equal(t, "2025-11", GranularityMonth.Label(nov))
}

func TestTimelineQuarterGranularity(t *testing.T) {
	end := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	records := []SubscriptionRecord{
		record(250, StatusActive, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	points, err := TimelinePoints(records, GranularityQuarter, end)
	require.NoError(t, err)
	require.Len(t, points, 3) // Q1, Q2, Q3
	assert.Equal(t, "2025-Q1", points[0].Period.Label)
	assert.Equal(t, 250.0, points[2].Snapshot.MRR)
}
