package finance

import (
	"github.com/talgya/harvest-hope/internal/state"
)

// Scheme is a government support program the player may enroll in.
type Scheme struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	BenefitAmount  int64    `json:"benefit_amount"` // ₹ per year, 0 when variable
	BenefitType    string   `json:"benefit_type"`   // direct_payment, insurance, subsidy, service
	Requirements   []string `json:"eligibility_requirements"`
	Process        []string `json:"application_process"`
	ProcessingDays int      `json:"processing_time_days"`
}

// EligibleSchemes lists the schemes this farm profile qualifies for.
// PM-KISAN gates on the 2-hectare marginal-farmer limit; crop insurance
// is only offered to the uninsured; the remainder are universal.
func EligibleSchemes(gs *state.GameState) []Scheme {
	var schemes []Scheme

	if gs.Farm.LandAreaHa <= 2.0 {
		schemes = append(schemes, Scheme{
			ID:            "pm-kisan",
			Name:          "PM-KISAN",
			Description:   "Direct income support of ₹6000 per year to small and marginal farmers",
			BenefitAmount: 6_000,
			BenefitType:   "direct_payment",
			Requirements: []string{
				"Land holding up to 2 hectares",
				"Valid Aadhaar card",
				"Bank account linked to Aadhaar",
				"Cultivable land ownership",
			},
			Process: []string{
				"Visit PM-KISAN portal or CSC",
				"Fill application form with land details",
				"Upload Aadhaar, bank passbook, land documents",
				"Submit for verification by local officials",
			},
			ProcessingDays: 30,
		})
	}

	if !gs.Economics.HasInsurance {
		schemes = append(schemes, Scheme{
			ID:          "pmfby",
			Name:        "Pradhan Mantri Fasal Bima Yojana",
			Description: "Comprehensive crop insurance covering yield losses due to natural calamities",
			BenefitType: "insurance",
			Requirements: []string{
				"Farmer with insurable interest in crop",
				"Valid land documents",
				"Crop details and area information",
			},
			Process: []string{
				"Apply through bank, CSC, or insurance company",
				"Pay farmer premium share",
				"Submit land and crop details",
				"Get policy document and coverage details",
			},
			ProcessingDays: 7,
		})
	}

	schemes = append(schemes,
		Scheme{
			ID:          "interest-subvention",
			Name:        "Interest Subvention Scheme",
			Description: "Interest subsidy on crop loans up to ₹3 lakh at 7% interest rate",
			BenefitType: "subsidy",
			Requirements: []string{
				"Crop loan from scheduled commercial bank",
				"Loan amount up to ₹3 lakh",
				"Timely repayment within due date",
				"Valid KCC or crop loan account",
			},
			Process: []string{
				"Apply for crop loan through bank",
				"Ensure timely repayment",
				"Subsidy credited automatically by bank",
				"Additional 3% for prompt repayment",
			},
		},
		Scheme{
			ID:          "soil-health-card",
			Name:        "Soil Health Card Scheme",
			Description: "Free soil testing and nutrient recommendations for optimal crop yield",
			BenefitType: "service",
			Requirements: []string{
				"Any farmer with cultivable land",
				"Valid land documents",
				"Aadhaar card",
			},
			Process: []string{
				"Contact local agriculture extension officer",
				"Provide soil samples as per guidelines",
				"Receive soil health card with recommendations",
				"Follow nutrient management advice",
			},
			ProcessingDays: 15,
		},
	)

	return schemes
}

// ApplicationResult is the outcome of a scheme application.
type ApplicationResult struct {
	Approved       bool   `json:"approved"`
	Reason         string `json:"reason"`
	ProcessingDays int    `json:"processing_time_days"`
}

var schemeProcessingDays = map[string]int{
	"pm-kisan":            30,
	"pmfby":               7,
	"interest-subvention": 0,
	"soil-health-card":    15,
}

// ApplyForScheme processes a scheme application. Verification failures are
// simulated at a 20% rate through the injected roll.
func ApplyForScheme(schemeID string, gs *state.GameState, roll func() float64) ApplicationResult {
	if schemeID == "pm-kisan" && gs.Farm.LandAreaHa > 2.0 {
		return ApplicationResult{
			Approved: false,
			Reason:   "Land holding exceeds 2 hectares limit for PM-KISAN",
		}
	}

	if roll != nil && roll() > 0.8 {
		return ApplicationResult{
			Approved:       false,
			Reason:         "Incomplete documentation or verification pending",
			ProcessingDays: 7,
		}
	}

	days, ok := schemeProcessingDays[schemeID]
	if !ok {
		days = 14
	}
	return ApplicationResult{
		Approved:       true,
		Reason:         "Application approved successfully",
		ProcessingDays: days,
	}
}
