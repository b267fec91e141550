package market

import (
	"testing"
)

func TestSellingOptionsRankedByScore(t *testing.T) {
	options := SellingOptions("wheat", 1000, "grade_b", 2400)
	if len(options) == 0 {
		t.Fatal("no selling options")
	}
	for i := 1; i < len(options); i++ {
		if options[i].Recommendation > options[i-1].Recommendation {
			t.Errorf("options not sorted: %s (%.1f) after %s (%.1f)",
				options[i].ChannelID, options[i].Recommendation,
				options[i-1].ChannelID, options[i-1].Recommendation)
		}
	}
}

func TestGovernmentProcurementGating(t *testing.T) {
	hasChannel := func(options []SellingOption, id string) bool {
		for _, o := range options {
			if o.ChannelID == id {
				return true
			}
		}
		return false
	}

	// Price above MSP: no procurement window.
	above := SellingOptions("wheat", 1000, "grade_b", 2400)
	if hasChannel(above, "government_procurement") {
		t.Error("government procurement offered above MSP")
	}

	// Price below MSP: procurement opens at the full support price.
	below := SellingOptions("wheat", 1000, "grade_b", 1800)
	if !hasChannel(below, "government_procurement") {
		t.Error("government procurement missing below MSP")
	}
	for _, o := range below {
		if o.ChannelID == "government_procurement" && !o.Available {
			t.Error("government procurement marked unavailable below MSP")
		}
	}
}

func TestSellingOptionsRevenueArithmetic(t *testing.T) {
	// 1000kg = 10 quintals of wheat at ₹2400 through the local mandi:
	// gross 2040/quintal, transport 500, commission 408, grade B neutral.
	options := SellingOptions("wheat", 1000, "grade_b", 2400)
	for _, o := range options {
		if o.ChannelID != "local_mandi" {
			continue
		}
		if o.GrossPrice != 2040 {
			t.Errorf("gross = %.2f, want 2040", o.GrossPrice)
		}
		if o.TransportCost != 500 {
			t.Errorf("transport = %.2f, want 500", o.TransportCost)
		}
		if o.Commission != 408 {
			t.Errorf("commission = %.2f, want 408", o.Commission)
		}
		if o.TotalRevenue != 19_492 {
			t.Errorf("revenue = %.2f, want 19492", o.TotalRevenue)
		}
		return
	}
	t.Fatal("local mandi option missing")
}

func TestQualityGradeAdjustsRevenue(t *testing.T) {
	premium := SellingOptions("rice", 500, "premium", 2300)
	belowStd := SellingOptions("rice", 500, "below_standard", 2300)

	if premium[0].TotalRevenue <= belowStd[0].TotalRevenue {
		t.Errorf("premium revenue %.2f not above below-standard %.2f",
			premium[0].TotalRevenue, belowStd[0].TotalRevenue)
	}
}

func TestSellingAdvice(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		hasStorage bool
		urgentCash bool
		want       string
	}{
		{name: "Well Above MSP", price: 2900, hasStorage: true, want: "sell_immediately"},
		{name: "Depressed With Storage", price: 1600, hasStorage: true, want: "wait_for_better_prices"},
		{name: "Depressed Needs Cash", price: 1600, hasStorage: true, urgentCash: true, want: "sell_to_government"},
		{name: "Depressed No Storage", price: 1600, hasStorage: false, want: "sell_to_government"},
		{name: "Near MSP", price: 2200, hasStorage: true, want: "monitor_and_decide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SellingAdvice("wheat", tt.price, tt.hasStorage, tt.urgentCash)
			if got.Recommendation != tt.want {
				t.Errorf("recommendation = %q, want %q", got.Recommendation, tt.want)
			}
			if len(got.Reasoning) == 0 {
				t.Error("advice has no reasoning")
			}
		})
	}
}
