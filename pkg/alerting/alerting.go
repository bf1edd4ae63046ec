// FILE: pkg/alerting/alerting.go
// The alert evaluator: a stateless, total function from a KPI snapshot plus
// configured goals to an ordered list of alerts. Any "already notified"
// suppression belongs to the calling layer.
package alerting

import (
	"fmt"
	"sort"

	"datacloud-analytics-be/pkg/kpi"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}

const (
	MetricChurnRate  = "churn_rate"
	MetricMRR        = "mrr"
	MetricLTV        = "ltv"
	MetricTrialShare = "trial_share"
)

// Alert is ephemeral, produced fresh each evaluation cycle.
type Alert struct {
	Severity  Severity `json:"severity"`
	Metric    string   `json:"metric"`
	Message   string   `json:"message"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
}

// Config holds the recognized threshold options. The three goals are
// required; missing values fail fast at Evaluate entry rather than
// defaulting silently, because silent defaults produce misleading alerts.
type Config struct {
	MonthlyRevenueGoal float64 `json:"monthly_revenue_goal"`
	MaxChurnRate       float64 `json:"max_churn_rate"`
	MinLTV             float64 `json:"min_ltv"`

	// Optional tuning, defaulted when zero.
	MaxTrialShare float64 `json:"max_trial_share"` // default 0.15
	ChurnWarnBand float64 `json:"churn_warn_band"` // fraction of MaxChurnRate, default 0.8
}

func (c *Config) validate() error {
	if c.MonthlyRevenueGoal <= 0 {
		return &ConfigError{Key: "monthly_revenue_goal", Reason: "must be set and positive"}
	}
	if c.MaxChurnRate <= 0 || c.MaxChurnRate > 1 {
		return &ConfigError{Key: "max_churn_rate", Reason: "must be a ratio in (0, 1]"}
	}
	if c.MinLTV <= 0 {
		return &ConfigError{Key: "min_ltv", Reason: "must be set and positive"}
	}
	if c.MaxTrialShare < 0 || c.MaxTrialShare > 1 {
		return &ConfigError{Key: "max_trial_share", Reason: "must be a ratio in [0, 1]"}
	}
	if c.ChurnWarnBand < 0 || c.ChurnWarnBand > 1 {
		return &ConfigError{Key: "churn_warn_band", Reason: "must be a ratio in [0, 1]"}
	}
	return nil
}

// Evaluate maps a snapshot against the configured goals. Rules run in fixed
// insertion order (churn, mrr, ltv, trial share), at most one alert per
// metric; sentinel metrics skip their rule. The result is sorted highest
// severity first, stable within equal severity.
func Evaluate(snapshot kpi.Snapshot, cfg Config) ([]Alert, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxTrialShare == 0 {
		cfg.MaxTrialShare = 0.15
	}
	if cfg.ChurnWarnBand == 0 {
		cfg.ChurnWarnBand = 0.8
	}

	var alerts []Alert

	// Rule 1: cancellation rate.
	if !snapshot.ChurnRate.UndefinedBase {
		churn := snapshot.ChurnRate.Value
		switch {
		case churn > cfg.MaxChurnRate:
			alerts = append(alerts, Alert{
				Severity:  SeverityCritical,
				Metric:    MetricChurnRate,
				Message:   fmt.Sprintf("Cancellation rate %.1f%% breached the %.1f%% limit", churn*100, cfg.MaxChurnRate*100),
				Value:     churn,
				Threshold: cfg.MaxChurnRate,
			})
		case churn > cfg.ChurnWarnBand*cfg.MaxChurnRate:
			alerts = append(alerts, Alert{
				Severity:  SeverityWarning,
				Metric:    MetricChurnRate,
				Message:   fmt.Sprintf("Cancellation rate %.1f%% is approaching the %.1f%% limit", churn*100, cfg.MaxChurnRate*100),
				Value:     churn,
				Threshold: cfg.MaxChurnRate,
			})
		default:
			alerts = append(alerts, Alert{
				Severity:  SeverityInfo,
				Metric:    MetricChurnRate,
				Message:   fmt.Sprintf("Cancellation rate %.1f%% is within target, keep it up", churn*100),
				Value:     churn,
				Threshold: cfg.MaxChurnRate,
			})
		}
	}

	// Rule 2: monthly revenue goal.
	if snapshot.MRR < cfg.MonthlyRevenueGoal {
		alerts = append(alerts, Alert{
			Severity:  SeverityWarning,
			Metric:    MetricMRR,
			Message:   fmt.Sprintf("MRR %.2f is below the monthly revenue goal of %.2f", snapshot.MRR, cfg.MonthlyRevenueGoal),
			Value:     snapshot.MRR,
			Threshold: cfg.MonthlyRevenueGoal,
		})
	} else {
		alerts = append(alerts, Alert{
			Severity:  SeverityInfo,
			Metric:    MetricMRR,
			Message:   fmt.Sprintf("Congratulations: MRR %.2f met the monthly revenue goal of %.2f", snapshot.MRR, cfg.MonthlyRevenueGoal),
			Value:     snapshot.MRR,
			Threshold: cfg.MonthlyRevenueGoal,
		})
	}

	// Rule 3: customer lifetime value. Unbounded LTV (zero churn) skips the
	// rule entirely, it is not an error.
	if !snapshot.LTV.Unbounded {
		if snapshot.LTV.Value < cfg.MinLTV {
			alerts = append(alerts, Alert{
				Severity:  SeverityWarning,
				Metric:    MetricLTV,
				Message:   fmt.Sprintf("Customer lifetime value %.2f is below the %.2f minimum", snapshot.LTV.Value, cfg.MinLTV),
				Value:     snapshot.LTV.Value,
				Threshold: cfg.MinLTV,
			})
		} else {
			alerts = append(alerts, Alert{
				Severity:  SeverityInfo,
				Metric:    MetricLTV,
				Message:   fmt.Sprintf("Customer lifetime value %.2f is above the %.2f minimum", snapshot.LTV.Value, cfg.MinLTV),
				Value:     snapshot.LTV.Value,
				Threshold: cfg.MinLTV,
			})
		}
	}

	// Rule 4: trial conversion. Skipped when there is no base to measure.
	if snapshot.TotalSubscriptions > 0 {
		share := float64(snapshot.TrialCount) / float64(snapshot.TotalSubscriptions)
		if share > cfg.MaxTrialShare {
			alerts = append(alerts, Alert{
				Severity:  SeverityWarning,
				Metric:    MetricTrialShare,
				Message:   fmt.Sprintf("Trial share %.1f%% exceeds %.1f%%, conversion needs attention", share*100, cfg.MaxTrialShare*100),
				Value:     share,
				Threshold: cfg.MaxTrialShare,
			})
		} else {
			alerts = append(alerts, Alert{
				Severity:  SeverityInfo,
				Metric:    MetricTrialShare,
				Message:   fmt.Sprintf("Trial share %.1f%% is within the %.1f%% target", share*100, cfg.MaxTrialShare*100),
				Value:     share,
				Threshold: cfg.MaxTrialShare,
			})
		}
	}

	// Highest severity first, insertion order preserved within a severity.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.rank() > alerts[j].Severity.rank()
	})
	return alerts, nil
}
