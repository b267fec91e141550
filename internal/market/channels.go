package market

import (
	"sort"
)

// channel describes one route from farm gate to buyer.
type channel struct {
	id           string
	name         string
	priceFactor  float64 // Share of market price realized
	transport    float64 // ₹ per quintal
	commission   float64 // Fraction of gross
	paymentDelay int     // Days
	reliability  float64
	requirements []string
}

var channels = []channel{
	{
		id: "local_mandi", name: "Local Mandi",
		priceFactor: 0.85, transport: 50, commission: 0.02,
		paymentDelay: 1, reliability: 0.95,
		requirements: []string{"Basic quality check"},
	},
	{
		id: "apmc", name: "APMC Market",
		priceFactor: 0.92, transport: 150, commission: 0.025,
		paymentDelay: 3, reliability: 0.98,
		requirements: []string{"APMC registration", "Quality certificate"},
	},
	{
		id: "enam", name: "eNAM Platform",
		priceFactor: 0.96, transport: 100, commission: 0.01,
		paymentDelay: 7, reliability: 0.99,
		requirements: []string{"eNAM registration", "Digital payment setup", "Quality assaying"},
	},
	{
		id: "direct_sale", name: "Direct to Consumer",
		priceFactor: 1.15, transport: 200, commission: 0,
		paymentDelay: 0, reliability: 0.85,
		requirements: []string{"Customer network", "Transportation arrangement"},
	},
	{
		id: "cooperative", name: "Farmer Cooperative",
		priceFactor: 0.98, transport: 75, commission: 0.005,
		paymentDelay: 5, reliability: 0.97,
		requirements: []string{"Cooperative membership", "Share contribution"},
	},
	{
		id: "government_procurement", name: "Government Procurement",
		priceFactor: 1.0, transport: 25, commission: 0,
		paymentDelay: 14, reliability: 1.0,
		requirements: []string{"Farmer registration", "Land documents", "Quality standards"},
	},
}

// qualityMultipliers adjust revenue by crop grade.
var qualityMultipliers = map[string]float64{
	"premium":        1.15,
	"grade_a":        1.05,
	"grade_b":        1.0,
	"grade_c":        0.9,
	"below_standard": 0.75,
}

// SellingOption is one channel's offer for a specific lot.
type SellingOption struct {
	ChannelID      string   `json:"channel_id"`
	ChannelName    string   `json:"channel_name"`
	GrossPrice     float64  `json:"gross_price_per_quintal"`
	NetPrice       float64  `json:"net_price_per_quintal"`
	TotalRevenue   float64  `json:"total_revenue"`
	TransportCost  float64  `json:"transport_cost"`
	Commission     float64  `json:"commission"`
	PaymentDelay   int      `json:"payment_delay_days"`
	Reliability    float64  `json:"reliability_score"`
	QualityAdjust  float64  `json:"quality_adjustment_pct"`
	Recommendation float64  `json:"recommendation_score"`
	Available      bool     `json:"available"`
	Requirements   []string `json:"requirements"`
}

// SellingOptions prices a lot across every channel and ranks them.
// quantityKG is the lot size; prices are per quintal (100kg). Government
// procurement only operates when the market sits at or below MSP.
func SellingOptions(cropType string, quantityKG float64, qualityGrade string, currentPrice float64) []SellingOption {
	base := MSP(cropType)
	quintals := quantityKG / 100

	qualityMult, ok := qualityMultipliers[qualityGrade]
	if !ok {
		qualityMult = 1.0
	}

	var options []SellingOption
	for _, ch := range channels {
		if ch.id == "government_procurement" && currentPrice > base {
			continue
		}

		gross := currentPrice * ch.priceFactor
		transport := ch.transport * quintals
		commission := gross * quintals * ch.commission
		revenue := (gross*quintals - transport - commission) * qualityMult

		available := true
		if ch.id == "government_procurement" {
			available = currentPrice <= base*1.05
		}

		options = append(options, SellingOption{
			ChannelID:      ch.id,
			ChannelName:    ch.name,
			GrossPrice:     round2(gross),
			NetPrice:       round2(revenue / quintals),
			TotalRevenue:   round2(revenue),
			TransportCost:  round2(transport),
			Commission:     round2(commission),
			PaymentDelay:   ch.paymentDelay,
			Reliability:    ch.reliability,
			QualityAdjust:  round1((qualityMult - 1) * 100),
			Recommendation: recommendationScore(revenue, ch, qualityMult),
			Available:      available,
			Requirements:   ch.requirements,
		})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Recommendation > options[j].Recommendation
	})
	return options
}

// recommendationScore weighs revenue 40%, reliability 30%, payment speed
// 20%, quality bonus 10%.
func recommendationScore(revenue float64, ch channel, qualityMult float64) float64 {
	revenueScore := min(revenue/100_000, 1.0) * 40
	reliabilityScore := ch.reliability * 30
	speedScore := max(0, float64(14-ch.paymentDelay)/14) * 20
	qualityBonus := (qualityMult - 1) * 100 * 10
	return round2(revenueScore + reliabilityScore + speedScore + qualityBonus)
}

// Advice is a selling recommendation with its rationale.
type Advice struct {
	Recommendation string   `json:"recommendation"`
	Reasoning      []string `json:"reasoning"`
	OptimalTiming  string   `json:"optimal_timing"`
	RiskFactors    []string `json:"risk_factors"`
}

// SellingAdvice recommends when and where to sell given the price level,
// storage availability and how badly the farmer needs cash.
func SellingAdvice(cropType string, currentPrice float64, hasStorage bool, urgentCash bool) Advice {
	base := MSP(cropType)
	ratio := currentPrice / base

	var advice Advice
	switch {
	case ratio >= 1.3:
		advice.Recommendation = "sell_immediately"
		advice.Reasoning = append(advice.Reasoning, "Current price is well above MSP")
		advice.OptimalTiming = "Immediate sale recommended"
	case ratio <= 0.8:
		if hasStorage && !urgentCash {
			advice.Recommendation = "wait_for_better_prices"
			advice.Reasoning = append(advice.Reasoning, "Price below MSP - consider waiting if possible")
			advice.OptimalTiming = "Wait 2-4 weeks for price recovery"
		} else {
			advice.Recommendation = "sell_to_government"
			advice.Reasoning = append(advice.Reasoning, "Use government procurement at MSP")
			advice.OptimalTiming = "Immediate sale to government agencies"
		}
	default:
		advice.Recommendation = "monitor_and_decide"
		advice.Reasoning = append(advice.Reasoning, "Price near MSP - monitor market trends")
		advice.OptimalTiming = "Flexible timing based on cash needs"
	}

	if urgentCash {
		advice.Reasoning = append(advice.Reasoning, "High financial urgency suggests immediate sale")
		if advice.Recommendation == "wait_for_better_prices" {
			advice.Recommendation = "sell_best_available_option"
		}
	}
	if !hasStorage {
		advice.Reasoning = append(advice.Reasoning, "Limited storage capacity requires prompt sale")
		advice.RiskFactors = append(advice.RiskFactors, "Post-harvest losses without proper storage")
	}

	return advice
}
