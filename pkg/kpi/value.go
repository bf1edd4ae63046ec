// FILE: pkg/kpi/value.go
// Tagged values for ratios whose denominator can legitimately be zero.
// An undefined metric is a value, not an error: the alert evaluator and the
// timeline builder consume the sentinel deliberately instead of letting
// NaN/Inf leak into comparisons.
package kpi

// Ratio is a churn-style ratio with an explicit "undefined base" tag.
// When UndefinedBase is set, Value is always 0 so callers can distinguish
// "no churn" from "no baseline to churn against".
type Ratio struct {
	Value         float64 `json:"value"`
	UndefinedBase bool    `json:"undefined_base"`
}

func DefinedRatio(v float64) Ratio {
	return Ratio{Value: v}
}

func UndefinedRatio() Ratio {
	return Ratio{UndefinedBase: true}
}

// LTV is a lifetime value with an explicit "unbounded" tag for the zero-churn
// case. When Unbounded is set, Value is 0 and must not be compared against
// thresholds.
type LTV struct {
	Value     float64 `json:"value"`
	Unbounded bool    `json:"unbounded"`
}

func DefinedLTV(v float64) LTV {
	return LTV{Value: v}
}

func UnboundedLTV() LTV {
	return LTV{Unbounded: true}
}
