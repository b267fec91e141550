package events

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/talgya/harvest-hope/internal/risk"
)

// template is the static content an event is instantiated from. The
// generator stamps identity, severity and timestamps onto a copy.
type template struct {
	typ         string
	category    string
	title       string
	description string
	educational string
	choices     []Choice
}

// priced appends the rupee cost of a choice to its label.
func priced(text string, cost int64) string {
	return fmt.Sprintf("%s (₹%s)", text, humanize.Comma(cost))
}

// catalog maps each threat kind to its candidate event templates.
var catalog = map[risk.ThreatKind][]template{
	risk.ThreatDrought: {
		{
			typ:         "drought_warning",
			category:    "weather_crisis",
			title:       "Drought Warning Issued",
			description: "Meteorological department has issued a drought warning for your region. Rainfall has been 40% below normal.",
			educational: "Drought management is crucial for Indian farmers. Consider water conservation techniques like drip irrigation and mulching.",
			choices: []Choice{
				{
					ID:   "drill_borewell",
					Text: priced("Drill a new borewell", 50_000),
					Cost: 50_000,
					Consequences: map[string]float64{
						"water_access": 30, "debt": 50_000, "crop_survival": 80,
					},
				},
				{
					ID:   "reduce_crop_area",
					Text: "Reduce crop area by 30%",
					Consequences: map[string]float64{
						"crop_yield": -30, "water_stress": -20, "income_loss": -25,
					},
				},
				{
					ID:   "wait_and_pray",
					Text: "Wait for rain and pray",
					Consequences: map[string]float64{
						"crop_risk": 60, "stress_level": 40, "yield_uncertainty": 70,
					},
				},
			},
		},
		{
			typ:         "severe_drought",
			category:    "extreme_weather",
			title:       "Severe Drought Conditions",
			description: "Your region is experiencing the worst drought in 20 years. Groundwater levels have dropped critically, and crop yields are expected to fall by 60-80%.",
			educational: "Severe droughts require immediate action. Crop insurance, water harvesting, and drought-resistant varieties are essential for survival.",
			choices: []Choice{
				{
					ID:   "emergency_irrigation",
					Text: priced("Install emergency drip irrigation", 80_000),
					Cost: 80_000,
					Consequences: map[string]float64{
						"crop_survival": 70, "water_efficiency": 50, "debt": 80_000, "yield_recovery": 40,
					},
				},
				{
					ID:   "sell_livestock",
					Text: "Sell livestock to raise emergency funds",
					Consequences: map[string]float64{
						"immediate_cash": 60_000, "livestock_loss": 100, "future_income_loss": -30, "emotional_stress": 40,
					},
				},
				{
					ID:   "abandon_crops",
					Text: "Abandon current crops and migrate temporarily",
					Cost: 10_000,
					Consequences: map[string]float64{
						"crop_loss": 100, "migration_cost": 10_000, "family_stress": 60, "survival_chance": 80,
					},
				},
			},
		},
	},
	risk.ThreatFlood: {
		{
			typ:         "flood_alert",
			category:    "weather_crisis",
			title:       "Flood Alert in Your Area",
			description: "Heavy rainfall has caused river levels to rise. Flood warning issued for low-lying agricultural areas.",
			educational: "Flood preparedness includes crop insurance, drainage systems, and emergency evacuation plans for livestock.",
			choices: []Choice{
				{
					ID:   "build_drainage",
					Text: priced("Build emergency drainage", 25_000),
					Cost: 25_000,
					Consequences: map[string]float64{
						"flood_damage": -40, "debt": 25_000, "future_protection": 50,
					},
				},
				{
					ID:   "evacuate_livestock",
					Text: "Evacuate livestock to higher ground",
					Cost: 5_000,
					Consequences: map[string]float64{
						"livestock_safety": 90, "evacuation_cost": 5_000, "stress_level": 20,
					},
				},
				{
					ID:   "stay_and_protect",
					Text: "Stay and protect the farm",
					Consequences: map[string]float64{
						"crop_damage_risk": 80, "personal_risk": 60, "property_loss": 70,
					},
				},
			},
		},
		{
			typ:         "flash_flood",
			category:    "extreme_weather",
			title:       "Flash Flood Emergency",
			description: "Unprecedented rainfall has caused flash flooding. Your crops are submerged, and there is immediate danger to life and property.",
			educational: "Flash floods are becoming more common due to climate change. Early warning systems and flood insurance are critical.",
			choices: []Choice{
				{
					ID:   "emergency_evacuation",
					Text: "Evacuate family and livestock immediately",
					Cost: 8_000,
					Consequences: map[string]float64{
						"family_safety": 100, "livestock_safety": 80, "crop_loss": 90, "evacuation_cost": 8_000,
					},
				},
				{
					ID:   "build_temporary_barriers",
					Text: priced("Build temporary flood barriers", 15_000),
					Cost: 15_000,
					Consequences: map[string]float64{
						"crop_protection": 30, "property_protection": 50, "personal_risk": 40, "barrier_cost": 15_000,
					},
				},
				{
					ID:   "wait_for_rescue",
					Text: "Stay and wait for government rescue",
					Consequences: map[string]float64{
						"rescue_dependency": 80, "crop_loss": 100, "property_damage": 70, "trauma_level": 60,
					},
				},
			},
		},
		{
			typ:         "cyclone_warning",
			category:    "extreme_weather",
			title:       "Cyclone Approaching",
			description: "A severe cyclone is expected to make landfall in 48 hours. Wind speeds may reach 150 km/h with heavy rainfall.",
			educational: "Cyclone preparedness saves lives and property. Secure structures, evacuate if necessary, and ensure emergency supplies.",
			choices: []Choice{
				{
					ID:   "full_preparation",
					Text: priced("Full cyclone preparation", 20_000),
					Cost: 20_000,
					Consequences: map[string]float64{
						"property_protection": 70, "crop_protection": 40, "family_safety": 90, "preparation_cost": 20_000,
					},
				},
				{
					ID:   "minimal_preparation",
					Text: "Basic preparation and hope for the best",
					Cost: 5_000,
					Consequences: map[string]float64{
						"property_protection": 30, "crop_protection": 10, "family_safety": 60, "preparation_cost": 5_000,
					},
				},
				{
					ID:   "evacuate_to_shelter",
					Text: "Evacuate to government cyclone shelter",
					Cost: 2_000,
					Consequences: map[string]float64{
						"family_safety": 95, "property_loss": 80, "crop_loss": 90, "shelter_experience": 40,
					},
				},
			},
		},
	},
	risk.ThreatPestOutbreak: {
		{
			typ:         "locust_swarm",
			category:    "pest_crisis",
			title:       "Locust Swarm Alert",
			description: "A massive locust swarm is moving towards your area. These pests can destroy entire crops within hours.",
			educational: "Locust control requires coordinated community action. Early detection and immediate response are crucial.",
			choices: []Choice{
				{
					ID:   "chemical_spray",
					Text: priced("Emergency chemical spraying", 12_000),
					Cost: 12_000,
					Consequences: map[string]float64{
						"crop_protection": 80, "chemical_cost": 12_000, "environmental_impact": -20, "health_risk": 10,
					},
				},
				{
					ID:   "community_action",
					Text: "Organize community smoke and noise campaign",
					Cost: 3_000,
					Consequences: map[string]float64{
						"crop_protection": 50, "community_unity": 40, "organization_cost": 3_000, "effectiveness": 60,
					},
				},
				{
					ID:   "harvest_early",
					Text: "Emergency early harvest",
					Cost: 5_000,
					Consequences: map[string]float64{
						"crop_saved": 70, "yield_reduction": -30, "harvest_cost": 5_000, "quality_loss": -20,
					},
				},
			},
		},
		{
			typ:         "pest_outbreak",
			category:    "pest_crisis",
			title:       "Major Pest Outbreak",
			description: "Your crops are under attack from bollworm/stem borer. The infestation is spreading rapidly across your fields.",
			educational: "Integrated Pest Management (IPM) combines biological, cultural, and chemical controls for sustainable pest management.",
			choices: []Choice{
				{
					ID:   "ipm_approach",
					Text: priced("Implement IPM strategy", 8_000),
					Cost: 8_000,
					Consequences: map[string]float64{
						"pest_control": 75, "environmental_safety": 30, "long_term_benefit": 40, "ipm_cost": 8_000,
					},
				},
				{
					ID:   "intensive_pesticide",
					Text: priced("Intensive pesticide treatment", 15_000),
					Cost: 15_000,
					Consequences: map[string]float64{
						"pest_control": 90, "chemical_cost": 15_000, "soil_damage": -30, "resistance_risk": 40,
					},
				},
				{
					ID:   "accept_losses",
					Text: "Accept losses and focus on next season",
					Consequences: map[string]float64{
						"crop_loss": 60, "cost_savings": 15_000, "learning_experience": 20, "emotional_impact": 40,
					},
				},
			},
		},
	},
	risk.ThreatEquipmentFailure: {
		{
			typ:         "equipment_failure",
			category:    "emergency_crisis",
			title:       "Critical Equipment Breakdown",
			description: "Your tractor has broken down during peak farming season. The repair shop says it needs a new engine.",
			educational: "Equipment maintenance is crucial for farming operations. Consider equipment insurance and backup plans.",
			choices: []Choice{
				{
					ID:   "expensive_repair",
					Text: priced("Pay for expensive repair", 45_000),
					Cost: 45_000,
					Consequences: map[string]float64{
						"equipment_restored": 100, "debt": 45_000, "operational_delay": 7, "financial_strain": 30,
					},
				},
				{
					ID:   "rent_equipment",
					Text: priced("Rent equipment for the season", 25_000),
					Cost: 25_000,
					Consequences: map[string]float64{
						"operational_continuity": 80, "rental_cost": 25_000, "dependency": 40, "flexibility_loss": 20,
					},
				},
				{
					ID:   "manual_farming",
					Text: "Switch to manual farming methods",
					Consequences: map[string]float64{
						"labor_increase": 200, "cost_savings": 45_000, "physical_strain": 60, "time_delay": 30,
					},
				},
			},
		},
		{
			typ:         "fire_accident",
			category:    "emergency_crisis",
			title:       "Farm Fire Emergency",
			description: "A fire has broken out in your storage area. Stored grain and equipment are at risk of being destroyed.",
			educational: "Fire safety in farms includes proper storage, fire breaks, and emergency response plans.",
			choices: []Choice{
				{
					ID:   "fire_brigade",
					Text: "Call fire brigade and organize water supply",
					Cost: 8_000,
					Consequences: map[string]float64{
						"property_saved": 70, "emergency_cost": 8_000, "community_help": 30, "response_time": 60,
					},
				},
				{
					ID:   "community_firefighting",
					Text: "Organize community firefighting effort",
					Cost: 3_000,
					Consequences: map[string]float64{
						"property_saved": 50, "community_unity": 50, "organization_cost": 3_000, "personal_risk": 40,
					},
				},
				{
					ID:   "save_what_possible",
					Text: "Save what you can and let the rest burn",
					Consequences: map[string]float64{
						"partial_savings": 30, "total_loss": 70, "emotional_trauma": 50, "insurance_claim": 40,
					},
				},
			},
		},
	},
	risk.ThreatHealthCrisis: {
		{
			typ:         "health_emergency",
			category:    "emergency_crisis",
			title:       "Family Health Crisis",
			description: "Your spouse has been hospitalized with a serious illness. Medical expenses are mounting, and you need to be at the hospital.",
			educational: "Health emergencies can devastate farming families. Health insurance and emergency funds are essential.",
			choices: []Choice{
				{
					ID:   "sell_assets",
					Text: "Sell farm assets for medical expenses",
					Consequences: map[string]float64{
						"medical_funds": 80_000, "asset_loss": 60, "future_productivity": -40, "family_health": 80,
					},
				},
				{
					ID:   "emergency_loan",
					Text: "Take emergency loan from moneylender",
					Consequences: map[string]float64{
						"medical_funds": 50_000, "debt_trap_risk": 70, "interest_burden": 50, "family_health": 70,
					},
				},
				{
					ID:   "community_help",
					Text: "Seek help from community and relatives",
					Consequences: map[string]float64{
						"medical_funds": 30_000, "social_debt": 40, "community_support": 60, "dignity_impact": 30,
					},
				},
			},
		},
		{
			typ:         "loan_due",
			category:    "financial_crisis",
			title:       "Loan Payment Due",
			description: "Your bank loan EMI of ₹15,000 is due in 3 days. Current account balance is insufficient.",
			educational: "Managing loan repayments is critical. Consider restructuring options or emergency government schemes.",
			choices: []Choice{
				{
					ID:   "sell_crop_early",
					Text: "Sell crops at current market price",
					Consequences: map[string]float64{
						"immediate_cash": 40_000, "price_loss": -20, "credit_score": 10,
					},
				},
				{
					ID:   "borrow_from_moneylender",
					Text: "Borrow from local moneylender (36% interest)",
					Consequences: map[string]float64{
						"immediate_cash": 15_000, "debt_trap_risk": 70, "interest_burden": 50,
					},
				},
				{
					ID:   "request_extension",
					Text: "Request payment extension from bank",
					Consequences: map[string]float64{
						"credit_score": -15, "penalty_interest": 2_000, "breathing_room": 30,
					},
				},
			},
		},
	},
}
