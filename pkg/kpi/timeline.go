// FILE: pkg/kpi/timeline.go
package kpi

import (
	"fmt"
	"iter"
	"time"
)

type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

func (g Granularity) Valid() bool {
	return g == GranularityMonth || g == GranularityQuarter
}

// PeriodStart truncates t to the start of its calendar period.
func (g Granularity) PeriodStart(t time.Time) time.Time {
	switch g {
	case GranularityQuarter:
		qMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		return time.Date(t.Year(), qMonth, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

// Next returns the start of the period following the one containing t.
func (g Granularity) Next(t time.Time) time.Time {
	start := g.PeriodStart(t)
	if g == GranularityQuarter {
		return start.AddDate(0, 3, 0)
	}
	return start.AddDate(0, 1, 0)
}

// Label formats the period containing t: "2006-01" for months, "2006-Q1"
// for quarters.
func (g Granularity) Label(t time.Time) string {
	if g == GranularityQuarter {
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), q)
	}
	return t.Format("2006-01")
}

// Period is one calendar slot on the growth timeline.
type Period struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
}

// TimelinePoint is a materialized (period, snapshot) pair for handlers that
// want a slice rather than an iterator.
type TimelinePoint struct {
	Period   Period   `json:"period"`
	Snapshot Snapshot `json:"snapshot"`
}

// BuildTimeline produces a lazy, finite, restartable sequence of one
// snapshot per calendar period from the earliest subscription start to asOf,
// inclusive. Periods with no activity yield a zero-valued snapshot so the
// timeline stays dense and chart-friendly. Records are validated once up
// front; the returned sequence cannot fail.
func BuildTimeline(records []SubscriptionRecord, g Granularity, asOf time.Time) (iter.Seq2[Period, Snapshot], error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	if !g.Valid() {
		g = GranularityMonth
	}

	var earliest time.Time
	for _, r := range records {
		if earliest.IsZero() || r.StartDate.Before(earliest) {
			earliest = r.StartDate
		}
	}

	return func(yield func(Period, Snapshot) bool) {
		if earliest.IsZero() || earliest.After(asOf) {
			return
		}
		for start := g.PeriodStart(earliest); !start.After(asOf); start = g.Next(start) {
			p := Period{Start: start, Label: g.Label(start)}
			if !yield(p, periodSnapshot(records, g, start)) {
				return
			}
		}
	}, nil
}

// TimelinePoints materializes BuildTimeline for JSON responses.
func TimelinePoints(records []SubscriptionRecord, g Granularity, asOf time.Time) ([]TimelinePoint, error) {
	seq, err := BuildTimeline(records, g, asOf)
	if err != nil {
		return nil, err
	}
	var points []TimelinePoint
	for p, s := range seq {
		points = append(points, TimelinePoint{Period: p, Snapshot: s})
	}
	return points, nil
}

// periodSnapshot reconstructs the KPI set for one historical period. Revenue
// is recognized for any period the subscription was active within; the churn
// window is the period itself. Records are already validated.
func periodSnapshot(records []SubscriptionRecord, g Granularity, start time.Time) Snapshot {
	end := g.Next(start)

	var mrr float64
	var active, churned, base, total int
	for _, r := range records {
		if r.StartDate.Before(end) {
			total++
		}
		if r.activeWithin(start, end) {
			mrr += r.MonthlyPrice
			active++
		}
		if r.activeAt(start) {
			base++
		}
		if r.canceledWithin(start, end) {
			churned++
		}
	}

	churn := UndefinedRatio()
	if base > 0 {
		churn = DefinedRatio(float64(churned) / float64(base))
	}
	avgTicket := 0.0
	if active > 0 {
		avgTicket = mrr / float64(active)
	}

	return Snapshot{
		MRR:                mrr,
		ARR:                ComputeARR(mrr),
		AvgTicket:          avgTicket,
		ChurnRate:          churn,
		LTV:                ComputeLTV(avgTicket, churn),
		TotalSubscriptions: total,
		ActiveCount:        active,
		CanceledCount:      churned,
		Period:             g.Label(start),
		AsOf:               end,
	}
}
