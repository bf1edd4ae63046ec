package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCohortsGroupsByStartPeriod(t *testing.T) {
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	records := []SubscriptionRecord{
		record(100, StatusActive, jan),
		canceledRecord(100, jan, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		record(200, StatusActive, feb),
	}

	cohorts, err := BuildCohorts(records, GranularityMonth, end)
	require.NoError(t, err)
	require.Len(t, cohorts, 2)

	janCohort := cohorts[0]
	assert.Equal(t, "2025-01", janCohort.Period)
	assert.Equal(t, 2, janCohort.InitialSize)
	assert.Equal(t, 200.0, janCohort.Revenue)
	require.Len(t, janCohort.Retention, 3) // Jan, Feb, Mar

	// Both retained in their own period.
	assert.Equal(t, 2, janCohort.Retention[0].Retained)
	assert.Equal(t, 1.0, janCohort.Retention[0].Ratio)
	// One canceled on Feb 20 but was still active within February.
	assert.Equal(t, 2, janCohort.Retention[1].Retained)
	// March only keeps the survivor.
	assert.Equal(t, 1, janCohort.Retention[2].Retained)
	assert.Equal(t, 0.5, janCohort.Retention[2].Ratio)

	febCohort := cohorts[1]
	assert.Equal(t, "2025-02", febCohort.Period)
	assert.Equal(t, 1, febCohort.InitialSize)
	require.Len(t, febCohort.Retention, 2) // Feb, Mar
}

func TestBuildCohortsIgnoresFutureStarts(t *testing.T) {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []SubscriptionRecord{
		record(100, StatusActive, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		record(100, StatusActive, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	cohorts, err := BuildCohorts(records, GranularityMonth, end)
	require.NoError(t, err)
	require.Len(t, cohorts, 1)
	assert.Equal(t, "2025-02", cohorts[0].Period)
}

func TestBuildCohortsEmpty(t *testing.T) {
	cohorts, err := BuildCohorts(nil, GranularityMonth, time.Now())
	require.NoError(t, err)
	assert.Empty(t, cohorts)
}
