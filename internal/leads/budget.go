package leads

import (
	"strconv"
	"strings"
)

// DefaultForecastCrores is the per-lead estimate used when a budget label has no range.
const DefaultForecastCrores = 5.0

// Budget is a parsed budget label in crores.
type Budget struct {
	Min float64
	Max float64
}

// Mid returns the midpoint of the range.
func (b Budget) Mid() float64 {
	return (b.Min + b.Max) / 2
}

// IsRange reports whether the label named two distinct bounds.
func (b Budget) IsRange() bool {
	return b.Max != b.Min
}

// ParseBudget reads labels such as "2-3 crore", "₹5+ Crores" or "3 crores".
// Labels without "crore" or with unparsable numbers report false.
func ParseBudget(label string) (Budget, bool) {
	s := strings.ToLower(strings.ReplaceAll(label, "₹", ""))
	if !strings.Contains(s, "crore") {
		return Budget{}, false
	}

	if head, _, ok := strings.Cut(s, "+"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
		if err != nil {
			return Budget{}, false
		}
		return Budget{Min: v, Max: v}, true
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return Budget{}, false
		}
		end, err := strconv.ParseFloat(firstField(hi), 64)
		if err != nil {
			return Budget{}, false
		}
		return Budget{Min: start, Max: end}, true
	}

	v, err := strconv.ParseFloat(firstField(s), 64)
	if err != nil {
		return Budget{}, false
	}
	return Budget{Min: v, Max: v}, true
}

// PipelineValue sums the crore value of each label: midpoints for ranges,
// the stated figure otherwise. Unparsable labels are skipped.
func PipelineValue(labels []string) float64 {
	var total float64
	for _, label := range labels {
		if b, ok := ParseBudget(label); ok {
			total += b.Mid()
		}
	}
	return total
}

// ForecastRevenue estimates revenue from a label→count breakdown. Crore
// ranges contribute their midpoint; any other crore label contributes
// DefaultForecastCrores. Non-crore labels contribute nothing.
func ForecastRevenue(breakdown map[string]int) float64 {
	var total float64
	for label, count := range breakdown {
		if !strings.Contains(strings.ToLower(label), "crore") {
			continue
		}
		value := DefaultForecastCrores
		if b, ok := ParseBudget(label); ok && b.IsRange() {
			value = b.Mid()
		}
		total += value * float64(count)
	}
	return total
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
