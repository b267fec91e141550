package meteo

import (
	"strings"
	"testing"

	"github.com/talgya/harvest-hope/internal/state"
)

func TestCropImpactTemperatureBands(t *testing.T) {
	tests := []struct {
		name       string
		crop       string
		tempMax    float64
		wantGrowth float64
	}{
		{name: "Rice Ideal Heat", crop: "rice", tempMax: 30, wantGrowth: 1.2},
		{name: "Rice Scorched", crop: "rice", tempMax: 42, wantGrowth: 0.7},
		{name: "Wheat Ideal Cool", crop: "wheat", tempMax: 20, wantGrowth: 1.3},
		{name: "Wheat Overheated", crop: "wheat", tempMax: 32, wantGrowth: 0.6},
		{name: "Unknown Crop Neutral", crop: "turmeric", tempMax: 30, wantGrowth: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := state.Conditions{TempMaxC: tt.tempMax, RainfallMM: 10, Humidity: 60}
			got := CropImpact(w, tt.crop, state.StageVegetative)
			if got.GrowthRate != tt.wantGrowth {
				t.Errorf("growth rate = %.2f, want %.2f", got.GrowthRate, tt.wantGrowth)
			}
		})
	}
}

func TestCropImpactRainfall(t *testing.T) {
	// Heavy rain punishes vulnerable stages and halves irrigation need.
	heavy := state.Conditions{TempMaxC: 30, RainfallMM: 60, Humidity: 60}
	got := CropImpact(heavy, "rice", state.StageSeedling)
	if got.HealthChange >= 0 {
		t.Errorf("health change = %.1f for seedling in heavy rain, want negative", got.HealthChange)
	}
	if got.WaterRequirement != 0.5 {
		t.Errorf("water requirement = %.2f, want 0.5", got.WaterRequirement)
	}

	// Dry day raises irrigation need.
	dry := state.Conditions{TempMaxC: 30, RainfallMM: 0, Humidity: 60}
	got = CropImpact(dry, "rice", state.StageVegetative)
	if got.WaterRequirement != 1.5 {
		t.Errorf("water requirement = %.2f, want 1.5", got.WaterRequirement)
	}
}

func TestCropImpactYieldPenalties(t *testing.T) {
	flowering := state.Conditions{TempMaxC: 30, RainfallMM: 35, Humidity: 60}
	got := CropImpact(flowering, "rice", state.StageFlowering)
	if got.YieldMultiplier != 0.8 {
		t.Errorf("flowering yield multiplier = %.2f, want 0.8", got.YieldMultiplier)
	}

	harvest := state.Conditions{TempMaxC: 30, RainfallMM: 45, Humidity: 60}
	got = CropImpact(harvest, "rice", state.StageMature)
	if got.YieldMultiplier != 0.7 {
		t.Errorf("mature yield multiplier = %.2f, want 0.7", got.YieldMultiplier)
	}
}

func TestCareRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		w       state.Conditions
		stage   state.GrowthStage
		keyword string
	}{
		{
			name:    "Heat Wave",
			w:       state.Conditions{TempMaxC: 43, RainfallMM: 5, Humidity: 40},
			stage:   state.StageVegetative,
			keyword: "shade",
		},
		{
			name:    "Waterlogging",
			w:       state.Conditions{TempMaxC: 30, RainfallMM: 60, Humidity: 70},
			stage:   state.StageVegetative,
			keyword: "drainage",
		},
		{
			name:    "Dry Spell",
			w:       state.Conditions{TempMaxC: 30, RainfallMM: 0, Humidity: 50},
			stage:   state.StageVegetative,
			keyword: "irrigation",
		},
		{
			name:    "Humid Disease Pressure",
			w:       state.Conditions{TempMaxC: 30, RainfallMM: 10, Humidity: 90},
			stage:   state.StageVegetative,
			keyword: "pest",
		},
		{
			name:    "Flowering Watch",
			w:       state.Conditions{TempMaxC: 30, RainfallMM: 10, Humidity: 60},
			stage:   state.StageFlowering,
			keyword: "flowering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := CareRecommendations(tt.w, "rice", tt.stage)
			found := false
			for _, r := range recs {
				if strings.Contains(strings.ToLower(r), tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("recommendations %v missing %q advisory", recs, tt.keyword)
			}
		})
	}
}

func TestCareRecommendationsFavorable(t *testing.T) {
	w := state.Conditions{TempMaxC: 28, RainfallMM: 10, Humidity: 60}
	recs := CareRecommendations(w, "rice", state.StageVegetative)
	if len(recs) != 1 || !strings.Contains(recs[0], "favorable") {
		t.Errorf("recommendations = %v, want single favorable notice", recs)
	}
}
