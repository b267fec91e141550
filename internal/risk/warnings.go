package risk

import "github.com/talgya/harvest-hope/internal/state"

// Early-warning thresholds sit strictly below the assessor emission
// thresholds so the player hears about a developing problem before it
// counts as an immediate threat.
const (
	warnDroughtOutlook = 0.3    // assessors require 0.4
	warnFloodOutlook   = 0.3    // assessors require 0.4
	warnFloodRainMM    = 10.0   // assessors require 25
	warnPestHumidity   = 75.0   // assessors require 80
	warnEquipmentWear  = 50.0   // assessors require < 40
	warnLiquidityFloor = 20_000 // assessors require ≤ 10,000
)

// EarlyWarnings re-derives the precursor indicators behind each threat
// category at more sensitive thresholds and formats one advisory per
// active category. A stable snapshot yields no warnings.
func EarlyWarnings(gs *state.GameState) []string {
	var warnings []string
	w := gs.Weather

	if w.Monsoon.DroughtRisk >= warnDroughtOutlook && w.Current.RainfallMM < 5 {
		warnings = append(warnings, "Drought conditions developing. Water conservation recommended.")
	}

	if w.Monsoon.FloodRisk >= warnFloodOutlook && w.Current.RainfallMM >= warnFloodRainMM {
		warnings = append(warnings, "Sustained heavy rain with rising flood risk. Clear field drainage and move stores off the ground.")
	}

	if w.Current.Humidity >= warnPestHumidity {
		for _, c := range gs.Farm.Crops {
			if pestVulnerable(c.GrowthStage) {
				warnings = append(warnings, "High humidity around flowering crops. Scout fields for early pest activity.")
				break
			}
		}
	}

	for _, eq := range gs.Farm.Equipment {
		if eq.Condition < warnEquipmentWear {
			warnings = append(warnings, "Equipment showing wear. Schedule maintenance before peak season.")
			break
		}
	}

	if gs.Farm.Money < warnLiquidityFloor && gs.Economics.OutstandingDebt() > 0 {
		warnings = append(warnings, "Cash reserves running low against outstanding loans. Review repayment options early.")
	}

	return warnings
}
