// Package finance implements the credit subsystem: EMI amortization,
// loan offers, overdue penalties, credit scoring, and government scheme
// eligibility.
package finance

import (
	"fmt"
	"math"

	"github.com/talgya/harvest-hope/internal/state"
)

// EMIResult is a loan's monthly installment and full repayment picture.
type EMIResult struct {
	EMIAmount     float64            `json:"emi_amount"`
	TotalAmount   float64            `json:"total_amount"`
	TotalInterest float64            `json:"total_interest"`
	Schedule      []EMIScheduleEntry `json:"schedule"`
}

// EMIScheduleEntry breaks one month's payment into its components.
type EMIScheduleEntry struct {
	Month     int     `json:"month"`
	EMIAmount float64 `json:"emi_amount"`
	Principal float64 `json:"principal_component"`
	Interest  float64 `json:"interest_component"`
	Remaining float64 `json:"remaining_balance"`
}

// CalculateEMI computes the reducing-balance installment
// P·r·(1+r)^n / ((1+r)^n − 1) and its month-by-month schedule. A zero rate
// degenerates to straight principal division, which some government
// schemes use.
func CalculateEMI(principal, annualRate float64, months int) (*EMIResult, error) {
	if principal <= 0 || annualRate < 0 || months <= 0 {
		return nil, fmt.Errorf("invalid loan parameters: principal=%.2f rate=%.2f months=%d",
			principal, annualRate, months)
	}

	var emi, total, interest float64
	if annualRate == 0 {
		emi = principal / float64(months)
		total = principal
	} else {
		r := annualRate / (12 * 100)
		growth := math.Pow(1+r, float64(months))
		emi = principal * r * growth / (growth - 1)
		total = emi * float64(months)
		interest = total - principal
	}

	return &EMIResult{
		EMIAmount:     round2(emi),
		TotalAmount:   round2(total),
		TotalInterest: round2(interest),
		Schedule:      buildSchedule(principal, annualRate, months, emi),
	}, nil
}

func buildSchedule(principal, annualRate float64, months int, emi float64) []EMIScheduleEntry {
	schedule := make([]EMIScheduleEntry, 0, months)
	remaining := principal
	monthlyRate := 0.0
	if annualRate > 0 {
		monthlyRate = annualRate / (12 * 100)
	}

	for month := 1; month <= months; month++ {
		interest := remaining * monthlyRate
		principalPart := emi - interest
		remaining = math.Max(0, remaining-principalPart)

		schedule = append(schedule, EMIScheduleEntry{
			Month:     month,
			EMIAmount: round2(emi),
			Principal: round2(principalPart),
			Interest:  round2(interest),
			Remaining: round2(remaining),
		})
	}
	return schedule
}

// LoanOffer is one credit line available to the player.
type LoanOffer struct {
	Type               state.LoanType `json:"type"`
	Name               string         `json:"name"`
	MaxAmount          int64          `json:"max_amount"`
	InterestRate       float64        `json:"interest_rate"`
	MaxDurationMonths  int            `json:"max_duration_months"`
	Requirements       []string       `json:"requirements"`
	ProcessingDays     int            `json:"processing_time_days"`
	CollateralRequired bool           `json:"collateral_required"`
	Features           []string       `json:"features"`
}

// LoanOffers lists the credit lines a farmer with this profile can access.
// The moneylender is always available; the formal options gate on credit
// score and land holding.
func LoanOffers(creditScore int, hasCollateral bool, landAreaHa float64) []LoanOffer {
	var offers []LoanOffer

	if creditScore >= 650 {
		maxAmount := int64(200_000)
		if hasCollateral {
			maxAmount = 500_000
		}
		offers = append(offers, LoanOffer{
			Type:              state.LoanBank,
			Name:              "Kisan Credit Card (KCC)",
			MaxAmount:         maxAmount,
			InterestRate:      7.0,
			MaxDurationMonths: 60,
			Requirements: []string{
				"Valid land documents",
				"Aadhaar card",
				"Bank account",
				fmt.Sprintf("Credit score >= 650 (Current: %d)", creditScore),
			},
			ProcessingDays:     7,
			CollateralRequired: true,
			Features: []string{
				"Interest subvention available",
				"Flexible repayment",
				"Crop insurance linkage",
			},
		})
	}

	offers = append(offers, LoanOffer{
		Type:              state.LoanMoneylender,
		Name:              "Local Moneylender",
		MaxAmount:         100_000,
		InterestRate:      36.0,
		MaxDurationMonths: 12,
		Requirements: []string{
			"Local reference",
			"Identity proof",
		},
		ProcessingDays: 1,
		Features: []string{
			"Instant approval",
			"No paperwork",
			"High interest rate",
		},
	})

	if creditScore >= 600 && landAreaHa <= 2.0 {
		offers = append(offers, LoanOffer{
			Type:              state.LoanGovernment,
			Name:              "PM-KISAN Credit Scheme",
			MaxAmount:         300_000,
			InterestRate:      4.0,
			MaxDurationMonths: 84,
			Requirements: []string{
				"Small/marginal farmer certificate",
				"Land ownership proof",
				"Income certificate",
				fmt.Sprintf("Land area <= 2 hectares (Current: %.1f)", landAreaHa),
			},
			ProcessingDays: 14,
			Features: []string{
				"Government guarantee",
				"Interest subsidy",
				"Flexible repayment",
			},
		})
	}

	return offers
}

// monthly penalty rates per credit source.
var penaltyRates = map[state.LoanType]float64{
	state.LoanBank:        0.02,
	state.LoanMoneylender: 0.05,
	state.LoanGovernment:  0.01,
}

// Penalty computes the charge for an EMI that is daysOverdue late.
func Penalty(emiAmount float64, daysOverdue int, loanType state.LoanType) float64 {
	monthlyRate, ok := penaltyRates[loanType]
	if !ok {
		monthlyRate = 0.02
	}
	return round2(emiAmount * monthlyRate / 30 * float64(daysOverdue))
}

// PaymentStatus is the repayment outcome the credit score reacts to.
type PaymentStatus string

const (
	PaymentOnTime PaymentStatus = "on_time"
	PaymentLate   PaymentStatus = "late"
	PaymentMissed PaymentStatus = "missed"
)

// UpdateCreditScore applies a payment outcome to the score, clamped to the
// CIBIL-style 300–850 band. Lateness beyond 30 days counts triple.
func UpdateCreditScore(current int, status PaymentStatus, daysLate int) int {
	var change int
	switch status {
	case PaymentOnTime:
		change = 2
	case PaymentLate:
		change = -5
		if daysLate > 30 {
			change = -15
		}
	case PaymentMissed:
		change = -25
	}

	score := current + change
	if score < 300 {
		score = 300
	}
	if score > 850 {
		score = 850
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
