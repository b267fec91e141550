package meteo

import (
	"github.com/talgya/harvest-hope/internal/state"
)

// Impact is the effect of one day of weather on one crop.
type Impact struct {
	GrowthRate       float64 `json:"growth_rate"`       // Multiplier, 1.0 is neutral
	HealthChange     float64 `json:"health_change"`     // Additive, points on 0–100
	YieldMultiplier  float64 `json:"yield_multiplier"`  // Multiplier on final yield
	WaterRequirement float64 `json:"water_requirement"` // Multiplier on irrigation need
}

// kharifCrops thrive in warm monsoon weather; rabiCrops want the cool season.
var kharifCrops = map[string]bool{"rice": true, "cotton": true, "sugarcane": true}
var rabiCrops = map[string]bool{"wheat": true, "barley": true, "peas": true}

// CropImpact scores one day of weather against a crop and its growth stage.
func CropImpact(w state.Conditions, cropType string, stage state.GrowthStage) Impact {
	impact := Impact{GrowthRate: 1.0, YieldMultiplier: 1.0, WaterRequirement: 1.0}

	switch {
	case kharifCrops[cropType]:
		switch {
		case w.TempMaxC < 20 || w.TempMaxC > 40:
			impact.GrowthRate *= 0.7
			impact.HealthChange -= 5
		case w.TempMaxC >= 25 && w.TempMaxC <= 35:
			impact.GrowthRate *= 1.2
			impact.HealthChange += 2
		}
	case rabiCrops[cropType]:
		switch {
		case w.TempMaxC < 10 || w.TempMaxC > 30:
			impact.GrowthRate *= 0.6
			impact.HealthChange -= 8
		case w.TempMaxC >= 15 && w.TempMaxC <= 25:
			impact.GrowthRate *= 1.3
			impact.HealthChange += 3
		}
	}

	switch {
	case w.RainfallMM > 50:
		if stage == state.StageSeedling || stage == state.StageFlowering {
			impact.HealthChange -= 10
		}
		impact.WaterRequirement *= 0.5
	case w.RainfallMM > 20:
		impact.HealthChange += 5
		impact.WaterRequirement *= 0.7
	case w.RainfallMM < 2:
		impact.HealthChange -= 3
		impact.WaterRequirement *= 1.5
	}

	switch {
	case w.Humidity > 85:
		impact.HealthChange -= 3 // Disease pressure
	case w.Humidity < 30:
		impact.HealthChange -= 2 // Moisture stress
	}

	if stage == state.StageFlowering && w.RainfallMM > 30 {
		impact.YieldMultiplier *= 0.8 // Pollination disruption
	} else if stage == state.StageMature && w.RainfallMM > 40 {
		impact.YieldMultiplier *= 0.7 // Harvest losses
	}

	return impact
}

// CareRecommendations lists the advisories a farmer should see for the
// day's weather and the crop's stage.
func CareRecommendations(w state.Conditions, cropType string, stage state.GrowthStage) []string {
	var recs []string

	if w.TempMaxC > 40 {
		recs = append(recs,
			"Provide shade or increase irrigation frequency due to high temperatures",
			"Consider mulching to reduce soil temperature")
	} else if w.TempMaxC < 15 {
		recs = append(recs, "Protect crops from cold stress, consider covering young plants")
	}

	if w.RainfallMM > 50 {
		recs = append(recs,
			"Ensure proper drainage to prevent waterlogging",
			"Monitor for fungal diseases due to excess moisture")
	} else if w.RainfallMM < 2 {
		recs = append(recs,
			"Increase irrigation frequency due to dry conditions",
			"Consider drought-resistant farming practices")
	}

	if w.Humidity > 85 {
		recs = append(recs,
			"Monitor for pest and disease outbreaks in high humidity",
			"Ensure good air circulation around plants")
	}

	switch stage {
	case state.StageFlowering:
		if w.RainfallMM > 30 {
			recs = append(recs, "Protect flowering crops from heavy rain to ensure pollination")
		}
		recs = append(recs, "Monitor closely as flowering stage is critical for yield")
	case state.StageMature:
		if w.RainfallMM > 20 {
			recs = append(recs, "Plan harvest timing to avoid rain damage to mature crops")
		}
	}

	if len(recs) == 0 {
		recs = []string{"Weather conditions are favorable for normal crop care"}
	}
	return recs
}
