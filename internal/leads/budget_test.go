package leads_test

import (
	"math"
	"testing"

	"github.com/JaimeStill/concierge/internal/leads"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		label string
		want  leads.Budget
		ok    bool
	}{
		{"8-10 crore", leads.Budget{Min: 8, Max: 10}, true},
		{"₹2-3 Crores", leads.Budget{Min: 2, Max: 3}, true},
		{"5+ crore", leads.Budget{Min: 5, Max: 5}, true},
		{"3 crores", leads.Budget{Min: 3, Max: 3}, true},
		{"50 lakh", leads.Budget{}, false},
		{"many crore", leads.Budget{}, false},
		{"", leads.Budget{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := leads.ParseBudget(tt.label)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseBudget(%q) = %+v, %v; want %+v, %v", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPipelineValue(t *testing.T) {
	got := leads.PipelineValue([]string{"8-10 crore", "5+ crore", "50 lakh", "2-3 crore"})
	if want := 9.0 + 5.0 + 2.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("PipelineValue() = %v, want %v", got, want)
	}
}

func TestForecastRevenue(t *testing.T) {
	breakdown := map[string]int{
		"8-10 crore": 2,
		"5+ crore":   1,
		"3 crores":   1,
		"50 lakh":    4,
	}

	got := leads.ForecastRevenue(breakdown)
	want := 9.0*2 + leads.DefaultForecastCrores + leads.DefaultForecastCrores
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ForecastRevenue() = %v, want %v", got, want)
	}
}
