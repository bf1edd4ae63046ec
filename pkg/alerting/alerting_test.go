package alerting

import (
	"errors"
	"testing"
	"time"

	"datacloud-analytics-be/pkg/kpi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	return Config{
		MonthlyRevenueGoal: 60000,
		MaxChurnRate:       0.05,
		MinLTV:             1000,
	}
}

func snapshot(mrr float64, churn kpi.Ratio, ltv kpi.LTV) kpi.Snapshot {
	return kpi.Snapshot{
		MRR:                mrr,
		ARR:                mrr * 12,
		AvgTicket:          200,
		ChurnRate:          churn,
		LTV:                ltv,
		TotalSubscriptions: 100,
		ActiveCount:        90,
		TrialCount:         10,
		AsOf:               time.Now(),
	}
}

func findMetric(alerts []Alert, metric string) *Alert {
	for i := range alerts {
		if alerts[i].Metric == metric {
			return &alerts[i]
		}
	}
	return nil
}

func TestEvaluateChurnBreachIsCritical(t *testing.T) {
	snap := snapshot(50000, kpi.DefinedRatio(0.08), kpi.DefinedLTV(2500))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	churnAlerts := 0
	for _, a := range alerts {
		if a.Metric == MetricChurnRate {
			churnAlerts++
			assert.Equal(t, SeverityCritical, a.Severity)
			assert.Equal(t, 0.08, a.Value)
			assert.Equal(t, 0.05, a.Threshold)
		}
	}
	assert.Equal(t, 1, churnAlerts, "exactly one alert per metric")

	// Critical sorts first.
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

func TestEvaluateAllGoalsMetEmitsInfoInRuleOrder(t *testing.T) {
	snap := snapshot(75000, kpi.DefinedRatio(0.02), kpi.DefinedLTV(5000))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	for _, a := range alerts {
		assert.Equal(t, SeverityInfo, a.Severity)
	}
	// Configured rule order within equal severity.
	assert.Equal(t, MetricChurnRate, alerts[0].Metric)
	assert.Equal(t, MetricMRR, alerts[1].Metric)
	assert.Equal(t, MetricLTV, alerts[2].Metric)
	assert.Equal(t, MetricTrialShare, alerts[3].Metric)
}

func TestEvaluateRevenueShortfallIsWarning(t *testing.T) {
	snap := snapshot(40000, kpi.DefinedRatio(0.02), kpi.DefinedLTV(5000))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	mrrAlert := findMetric(alerts, MetricMRR)
	require.NotNil(t, mrrAlert)
	assert.Equal(t, SeverityWarning, mrrAlert.Severity)
}

func TestEvaluateChurnWarnBand(t *testing.T) {
	// 0.045 is above 80% of the 0.05 limit but not a breach.
	snap := snapshot(75000, kpi.DefinedRatio(0.045), kpi.DefinedLTV(5000))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	churnAlert := findMetric(alerts, MetricChurnRate)
	require.NotNil(t, churnAlert)
	assert.Equal(t, SeverityWarning, churnAlert.Severity)
}

func TestEvaluateLowLTVIsWarning(t *testing.T) {
	snap := snapshot(75000, kpi.DefinedRatio(0.02), kpi.DefinedLTV(500))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	ltvAlert := findMetric(alerts, MetricLTV)
	require.NotNil(t, ltvAlert)
	assert.Equal(t, SeverityWarning, ltvAlert.Severity)
}

func TestEvaluateSentinelMetricsAreSkippedNotErrors(t *testing.T) {
	// Zero churn baseline: churn undefined, LTV unbounded. Evaluation is
	// total and must still run the remaining rules.
	snap := snapshot(75000, kpi.UndefinedRatio(), kpi.UnboundedLTV())

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	assert.Nil(t, findMetric(alerts, MetricChurnRate))
	assert.Nil(t, findMetric(alerts, MetricLTV))
	assert.NotNil(t, findMetric(alerts, MetricMRR))
}

func TestEvaluateTrialShareWarning(t *testing.T) {
	snap := snapshot(75000, kpi.DefinedRatio(0.02), kpi.DefinedLTV(5000))
	snap.TrialCount = 30 // 30% of 100

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)

	trialAlert := findMetric(alerts, MetricTrialShare)
	require.NotNil(t, trialAlert)
	assert.Equal(t, SeverityWarning, trialAlert.Severity)
	assert.InDelta(t, 0.3, trialAlert.Value, 1e-9)
}

func TestEvaluateSeverityOrdering(t *testing.T) {
	// Churn breach + revenue shortfall + low LTV: critical first, then the
	// warnings in rule order, infos last.
	snap := snapshot(40000, kpi.DefinedRatio(0.08), kpi.DefinedLTV(500))

	alerts, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, MetricChurnRate, alerts[0].Metric)
	assert.Equal(t, SeverityWarning, alerts[1].Severity)
	assert.Equal(t, MetricMRR, alerts[1].Metric)
	assert.Equal(t, SeverityWarning, alerts[2].Severity)
	assert.Equal(t, MetricLTV, alerts[2].Metric)
	assert.Equal(t, SeverityInfo, alerts[3].Severity)
}

func TestEvaluateConfigErrors(t *testing.T) {
	snap := snapshot(75000, kpi.DefinedRatio(0.02), kpi.DefinedLTV(5000))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing revenue goal", Config{MaxChurnRate: 0.05, MinLTV: 1000}},
		{"missing churn limit", Config{MonthlyRevenueGoal: 60000, MinLTV: 1000}},
		{"churn limit above one", Config{MonthlyRevenueGoal: 60000, MaxChurnRate: 1.5, MinLTV: 1000}},
		{"missing min ltv", Config{MonthlyRevenueGoal: 60000, MaxChurnRate: 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(snap, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfig))

			var ce *ConfigError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestEvaluateIsStateless(t *testing.T) {
	snap := snapshot(40000, kpi.DefinedRatio(0.08), kpi.DefinedLTV(500))
	first, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)
	second, err := Evaluate(snap, baseConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
