package filter

import "strings"

// MathAvailability restricts which aggregations a row may offer.
type MathAvailability int

const (
	MathAll MathAvailability = iota
	MathActorsOnly
	MathNone
)

// Aggregations understood by the math picker.
const (
	MathTotal         = "total"
	MathDAU           = "dau"
	MathWeeklyActive  = "weekly_active"
	MathMonthlyActive = "monthly_active"
	MathUniqueGroup   = "unique_group"
	MathSum           = "sum"
	MathAvg           = "avg"
	MathMin           = "min"
	MathMax           = "max"
	MathMedian        = "median"
	MathP90           = "p90"
	MathP95           = "p95"
	MathP99           = "p99"
)

var (
	actorMath    = []string{MathDAU, MathWeeklyActive, MathMonthlyActive, MathUniqueGroup}
	propertyMath = []string{MathSum, MathAvg, MathMin, MathMax, MathMedian, MathP90, MathP95, MathP99}
)

// ParseMathAvailability accepts all, actors_only and none.
func ParseMathAvailability(s string) MathAvailability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actors", "actors_only", "actorsonly":
		return MathActorsOnly
	case "none", "off":
		return MathNone
	default:
		return MathAll
	}
}

func (a MathAvailability) String() string {
	switch a {
	case MathActorsOnly:
		return "actors_only"
	case MathNone:
		return "none"
	default:
		return "all"
	}
}

// Options lists the selectable aggregations in picker order.
func (a MathAvailability) Options() []string {
	switch a {
	case MathNone:
		return nil
	case MathActorsOnly:
		return append([]string(nil), actorMath...)
	}
	out := []string{MathTotal}
	out = append(out, actorMath...)
	return append(out, propertyMath...)
}

// Allows reports whether math may be selected. The empty string resets a
// row to its default aggregation and is always allowed.
func (a MathAvailability) Allows(math string) bool {
	if math == "" {
		return true
	}
	for _, m := range a.Options() {
		if m == math {
			return true
		}
	}
	return false
}

// IsPropertyMath reports whether math aggregates over a numeric property.
func IsPropertyMath(math string) bool {
	for _, m := range propertyMath {
		if m == math {
			return true
		}
	}
	return false
}

// NextMath cycles through a's options after current, wrapping to the default.
func NextMath(a MathAvailability, current string) string {
	opts := a.Options()
	if len(opts) == 0 {
		return ""
	}
	for i, m := range opts {
		if m == current {
			if i+1 < len(opts) {
				return opts[i+1]
			}
			return opts[0]
		}
	}
	return opts[0]
}
