// FILE: pkg/kpi/cohort.go
package kpi

import (
	"sort"
	"time"
)

// CohortRetention is one cohort's state at one period.
type CohortRetention struct {
	Period   string  `json:"period"`
	Retained int     `json:"retained"`
	Ratio    float64 `json:"ratio"`
}

// Cohort groups subscriptions sharing a start period. Membership is fixed at
// creation: a subscription never moves cohorts, even if canceled and later
// reactivated under a new id.
type Cohort struct {
	Period      string            `json:"period"`
	InitialSize int               `json:"initial_size"`
	Revenue     float64           `json:"revenue"`
	Retention   []CohortRetention `json:"retention"`
}

// BuildCohorts groups records by the period containing their start date and
// tracks retention from the cohort's own period through the period containing
// asOf. A member counts as retained in a period if it was active at any point
// within it (its start period always counts).
func BuildCohorts(records []SubscriptionRecord, g Granularity, asOf time.Time) ([]Cohort, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	if !g.Valid() {
		g = GranularityMonth
	}

	byStart := make(map[time.Time][]SubscriptionRecord)
	for _, r := range records {
		if r.StartDate.After(asOf) {
			continue
		}
		key := g.PeriodStart(r.StartDate)
		byStart[key] = append(byStart[key], r)
	}

	starts := make([]time.Time, 0, len(byStart))
	for k := range byStart {
		starts = append(starts, k)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	cohorts := make([]Cohort, 0, len(starts))
	for _, cohortStart := range starts {
		members := byStart[cohortStart]
		c := Cohort{
			Period:      g.Label(cohortStart),
			InitialSize: len(members),
		}
		for _, m := range members {
			c.Revenue += m.MonthlyPrice
		}

		for pStart := cohortStart; !pStart.After(asOf); pStart = g.Next(pStart) {
			pEnd := g.Next(pStart)
			retained := 0
			for _, m := range members {
				if pStart.Equal(cohortStart) || m.activeWithin(pStart, pEnd) {
					retained++
				}
			}
			c.Retention = append(c.Retention, CohortRetention{
				Period:   g.Label(pStart),
				Retained: retained,
				Ratio:    float64(retained) / float64(len(members)),
			})
		}
		cohorts = append(cohorts, c)
	}
	return cohorts, nil
}
