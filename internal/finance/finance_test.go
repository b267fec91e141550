package finance

import (
	"math"
	"testing"

	"github.com/talgya/harvest-hope/internal/state"
)

func TestCalculateEMI(t *testing.T) {
	// Standard reducing-balance check: ₹1,00,000 at 12% over 12 months.
	res, err := CalculateEMI(100_000, 12, 12)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.EMIAmount-8884.88) > 0.01 {
		t.Errorf("EMI = %.2f, want 8884.88", res.EMIAmount)
	}
	if res.TotalInterest <= 0 {
		t.Errorf("total interest = %.2f, want positive", res.TotalInterest)
	}
	if len(res.Schedule) != 12 {
		t.Fatalf("schedule length = %d, want 12", len(res.Schedule))
	}
	if last := res.Schedule[len(res.Schedule)-1]; math.Abs(last.Remaining) > 0.05 {
		t.Errorf("final balance = %.2f, want ~0", last.Remaining)
	}
}

func TestCalculateEMIZeroRate(t *testing.T) {
	res, err := CalculateEMI(120_000, 0, 12)
	if err != nil {
		t.Fatal(err)
	}
	if res.EMIAmount != 10_000 {
		t.Errorf("EMI = %.2f, want 10000", res.EMIAmount)
	}
	if res.TotalInterest != 0 {
		t.Errorf("total interest = %.2f, want 0", res.TotalInterest)
	}
}

func TestCalculateEMIInvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
	}{
		{name: "Zero Principal", principal: 0, rate: 7, months: 12},
		{name: "Negative Rate", principal: 10_000, rate: -1, months: 12},
		{name: "Zero Term", principal: 10_000, rate: 7, months: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CalculateEMI(tt.principal, tt.rate, tt.months); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEMIScheduleInterestDeclines(t *testing.T) {
	res, err := CalculateEMI(100_000, 12, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(res.Schedule); i++ {
		if res.Schedule[i].Interest >= res.Schedule[i-1].Interest {
			t.Errorf("month %d interest %.2f not below month %d interest %.2f",
				i+1, res.Schedule[i].Interest, i, res.Schedule[i-1].Interest)
		}
	}
}

func TestLoanOffers(t *testing.T) {
	hasType := func(offers []LoanOffer, typ state.LoanType) bool {
		for _, o := range offers {
			if o.Type == typ {
				return true
			}
		}
		return false
	}

	t.Run("Strong Profile", func(t *testing.T) {
		offers := LoanOffers(700, true, 1.5)
		if len(offers) != 3 {
			t.Fatalf("offers = %d, want 3", len(offers))
		}
		if !hasType(offers, state.LoanBank) || !hasType(offers, state.LoanGovernment) {
			t.Error("strong profile missing formal credit offers")
		}
		for _, o := range offers {
			if o.Type == state.LoanBank && o.MaxAmount != 500_000 {
				t.Errorf("collateralized KCC max = %d, want 500000", o.MaxAmount)
			}
		}
	})

	t.Run("Weak Credit", func(t *testing.T) {
		offers := LoanOffers(500, false, 1.5)
		if hasType(offers, state.LoanBank) {
			t.Error("KCC offered below 650 credit score")
		}
		if hasType(offers, state.LoanGovernment) {
			t.Error("government credit offered below 600 credit score")
		}
		if !hasType(offers, state.LoanMoneylender) {
			t.Error("moneylender must always be available")
		}
	})

	t.Run("Large Landholder", func(t *testing.T) {
		offers := LoanOffers(700, false, 5.0)
		if hasType(offers, state.LoanGovernment) {
			t.Error("government credit offered above 2 hectare limit")
		}
		for _, o := range offers {
			if o.Type == state.LoanBank && o.MaxAmount != 200_000 {
				t.Errorf("uncollateralized KCC max = %d, want 200000", o.MaxAmount)
			}
		}
	})
}

func TestPenalty(t *testing.T) {
	tests := []struct {
		name string
		typ  state.LoanType
		days int
		want float64
	}{
		{name: "Bank One Month", typ: state.LoanBank, days: 30, want: 300},               // 2% of 15000
		{name: "Moneylender One Month", typ: state.LoanMoneylender, days: 30, want: 750}, // 5%
		{name: "Government One Month", typ: state.LoanGovernment, days: 30, want: 150},   // 1%
		{name: "Bank Ten Days", typ: state.LoanBank, days: 10, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Penalty(15_000, tt.days, tt.typ); got != tt.want {
				t.Errorf("Penalty = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestUpdateCreditScore(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		status   PaymentStatus
		daysLate int
		want     int
	}{
		{name: "On Time", current: 600, status: PaymentOnTime, want: 602},
		{name: "Slightly Late", current: 600, status: PaymentLate, daysLate: 10, want: 595},
		{name: "Very Late", current: 600, status: PaymentLate, daysLate: 45, want: 585},
		{name: "Missed", current: 600, status: PaymentMissed, want: 575},
		{name: "Floor Clamp", current: 310, status: PaymentMissed, want: 300},
		{name: "Ceiling Clamp", current: 849, status: PaymentOnTime, want: 850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpdateCreditScore(tt.current, tt.status, tt.daysLate); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}
