package risk

import (
	"fmt"

	"github.com/talgya/harvest-hope/internal/state"
)

// Assessor thresholds. Each assessor abstains below its emission floor, so
// a calm snapshot produces no threats at all. The constants are tuned so
// that the driving indicator maps monotonically onto the probability.
const (
	// Drought: near-zero rain now and ahead, plus a seasonal outlook that
	// is at least weakly confident of drought.
	droughtDryRainMM     = 2.0 // "near-zero" current rainfall
	droughtDryForecastMM = 5.0 // "near-zero" forecast total
	droughtOutlookFloor  = 0.4 // minimum droughtRisk before we model at all
	droughtEmitFloor     = 0.3 // minimum probability to report

	// Flood: heavy rain falling now against an elevated flood outlook.
	floodHeavyRainMM  = 25.0
	floodOutlookFloor = 0.4
	floodEmitFloor    = 0.2

	// Pest: flowering/budding crops under sustained high humidity.
	pestHumidityFloor = 80.0

	// Equipment: wear threshold below which breakdown becomes likely.
	equipmentWearThreshold = 40.0

	// Financial: liquidity floor in ₹ under which outstanding debt turns
	// into a household crisis.
	financialLiquidityFloor = 10_000
)

// assessDrought scores drought threat from current dryness and the monsoon
// outlook. Probability scales with the predicted droughtRisk; a parched
// atmosphere (low humidity) adds a small penalty.
func assessDrought(gs *state.GameState) (Threat, bool) {
	w := gs.Weather
	if w.Current.RainfallMM >= droughtDryRainMM {
		return Threat{}, false
	}
	if w.ForecastRainfall() >= droughtDryForecastMM {
		return Threat{}, false
	}
	if w.Monsoon.DroughtRisk < droughtOutlookFloor {
		return Threat{}, false
	}

	p := w.Monsoon.DroughtRisk * 0.75
	if w.Current.Humidity < 35 {
		p += 0.1
	}
	p = clamp01(p)
	if p < droughtEmitFloor {
		return Threat{}, false
	}

	sev := SeverityModerate
	switch {
	case w.Monsoon.DroughtRisk >= 0.7:
		sev = SeverityCritical
	case w.Monsoon.DroughtRisk >= 0.55:
		sev = SeverityHigh
	}

	return Threat{
		Kind:        ThreatDrought,
		Probability: p,
		Severity:    sev,
		Description: fmt.Sprintf("No rainfall recorded or forecast; seasonal drought risk at %.0f%%.", w.Monsoon.DroughtRisk*100),
	}, true
}

// assessFlood scores flood threat from heavy current rainfall combined with
// an elevated flood outlook. Wind and saturation add small contributions.
func assessFlood(gs *state.GameState) (Threat, bool) {
	w := gs.Weather
	if w.Current.RainfallMM < floodHeavyRainMM {
		return Threat{}, false
	}
	if w.Monsoon.FloodRisk < floodOutlookFloor {
		return Threat{}, false
	}

	p := w.Monsoon.FloodRisk * 0.5
	excess := (w.Current.RainfallMM - floodHeavyRainMM) / 100
	if excess > 0.25 {
		excess = 0.25
	}
	p += excess
	if w.Current.WindSpeedKH > 40 {
		p += 0.05
	}
	if w.Current.Humidity >= 85 {
		p += 0.05
	}
	p = clamp01(p)
	if p < floodEmitFloor {
		return Threat{}, false
	}

	sev := SeverityModerate
	switch {
	case w.Monsoon.FloodRisk >= 0.7 && w.Current.RainfallMM >= 50:
		sev = SeverityCritical
	case w.Monsoon.FloodRisk >= 0.6:
		sev = SeverityHigh
	}

	return Threat{
		Kind:        ThreatFlood,
		Probability: p,
		Severity:    sev,
		Description: fmt.Sprintf("%.0fmm rain falling with flood risk at %.0f%%; low fields may flood.", w.Current.RainfallMM, w.Monsoon.FloodRisk*100),
	}, true
}

// pestVulnerable reports whether a crop is in a stage where outbreaks take
// hold. Seedling, mature, and harvestable crops never contribute.
func pestVulnerable(stage state.GrowthStage) bool {
	return stage == state.StageFlowering || stage == state.StageBudding
}

// assessPestOutbreak scores outbreak threat across all planted crops.
// Humidity is the driving indicator; light rain on top raises it further.
func assessPestOutbreak(gs *state.GameState) (Threat, bool) {
	humidity := gs.Weather.Current.Humidity
	if humidity < pestHumidityFloor {
		return Threat{}, false
	}

	vulnerable := 0
	var worst state.Crop
	for _, c := range gs.Farm.Crops {
		if pestVulnerable(c.GrowthStage) {
			vulnerable++
			worst = c
		}
	}
	if vulnerable == 0 {
		return Threat{}, false
	}

	p := 0.16 + (humidity-pestHumidityFloor)*0.02
	rain := gs.Weather.Current.RainfallMM
	if rain > 0 && rain <= 10 { // light rain keeps foliage wet
		p += 0.04
	}
	if vulnerable > 1 {
		p += 0.05
	}
	p = clamp01(p)

	sev := SeverityModerate
	if humidity >= 90 {
		sev = SeverityHigh
	}

	return Threat{
		Kind:        ThreatPestOutbreak,
		Probability: p,
		Severity:    sev,
		Description: fmt.Sprintf("Humidity at %.0f%% with %s %s; prime conditions for borers and fungal pests.", humidity, worst.Type, worst.GrowthStage),
	}, true
}

// assessEquipmentFailure scores breakdown threat from the worst-worn
// machine. Condition at or above the wear threshold never contributes.
func assessEquipmentFailure(gs *state.GameState) (Threat, bool) {
	worn := false
	var worst state.Equipment
	for _, eq := range gs.Farm.Equipment {
		if eq.Condition < equipmentWearThreshold && (!worn || eq.Condition < worst.Condition) {
			worn = true
			worst = eq
		}
	}
	if !worn {
		return Threat{}, false
	}

	// Linear in missing condition: 39 → 0.115, 30 → 0.25, 0 → 0.70.
	p := clamp01(0.1 + (equipmentWearThreshold-worst.Condition)*0.015)

	sev := SeverityModerate
	if worst.Condition < 15 {
		sev = SeverityHigh
	}

	return Threat{
		Kind:        ThreatEquipmentFailure,
		Probability: p,
		Severity:    sev,
		Description: fmt.Sprintf("%s at %.0f%% condition; breakdown likely during peak operations.", worst.Name, worst.Condition),
	}, true
}

// assessFinancialCrisis scores household crisis from low liquidity against
// outstanding debt. Multiple loans and informal high-interest credit are
// the strongest signals; on its own this combination is a critical threat.
func assessFinancialCrisis(gs *state.GameState) (Threat, bool) {
	money := gs.Farm.Money
	debt := gs.Economics.OutstandingDebt()
	if money > financialLiquidityFloor || debt <= 0 {
		return Threat{}, false
	}

	active := gs.Economics.ActiveLoans()
	highInterest := gs.Economics.HasHighInterestDebt()

	p := 0.35
	if active > 3 {
		p += 0.15
	} else {
		p += 0.05 * float64(active)
	}
	if highInterest {
		p += 0.2
	}
	p = clamp01(p)

	sev := SeverityModerate
	switch {
	case active >= 2 && highInterest:
		sev = SeverityCritical
	case highInterest:
		sev = SeverityHigh
	}

	return Threat{
		Kind:        ThreatHealthCrisis,
		Probability: p,
		Severity:    sev,
		Description: fmt.Sprintf("Reserves down to ₹%d against ₹%.0f of debt across %d loans; household under strain.", money, debt, active),
	}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
