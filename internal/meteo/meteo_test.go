package meteo

import (
	"testing"

	"github.com/talgya/harvest-hope/internal/state"
)

func TestPredictMonsoonWithinEnvelope(t *testing.T) {
	svc := NewService(42)

	for i := 0; i < 50; i++ {
		m := svc.PredictMonsoon(state.SeasonKharif)

		pattern, ok := monsoonPatterns[m.Strength]
		if !ok {
			t.Fatalf("unknown strength %q", m.Strength)
		}
		if m.TotalRainfall < pattern.rainfallMin || m.TotalRainfall > pattern.rainfallMax {
			t.Errorf("rainfall %.0f outside [%.0f, %.0f] for %s monsoon",
				m.TotalRainfall, pattern.rainfallMin, pattern.rainfallMax, m.Strength)
		}
		if m.DroughtRisk < 0 || m.DroughtRisk > 1 {
			t.Errorf("drought risk %.2f out of range", m.DroughtRisk)
		}
		if m.FloodRisk < 0 || m.FloodRisk > 1 {
			t.Errorf("flood risk %.2f out of range", m.FloodRisk)
		}
		if m.Confidence < 0.6 || m.Confidence > 0.9 {
			t.Errorf("confidence %.2f outside [0.6, 0.9]", m.Confidence)
		}
		if m.ArrivalDate == "" {
			t.Error("arrival date empty")
		}
	}
}

func TestPredictMonsoonDeterministicBySeed(t *testing.T) {
	a := NewService(7).PredictMonsoon(state.SeasonRabi)
	b := NewService(7).PredictMonsoon(state.SeasonRabi)
	if a.Strength != b.Strength || a.TotalRainfall != b.TotalRainfall {
		t.Errorf("same seed produced %+v and %+v", a, b)
	}
}

func TestDailyWeatherBounds(t *testing.T) {
	svc := NewService(1)
	monsoon := state.MonsoonPrediction{Strength: "moderate"}

	seasons := []state.Season{
		state.SeasonKharif, state.SeasonRabi, state.SeasonZaid, state.SeasonOff,
	}
	for _, season := range seasons {
		for day := 1; day <= 120; day++ {
			w := svc.DailyWeather(season, day, monsoon)
			if w.TempMaxC <= w.TempMinC {
				t.Fatalf("%v day %d: max %.1f not above min %.1f", season, day, w.TempMaxC, w.TempMinC)
			}
			if w.Humidity < 0 || w.Humidity > 100 {
				t.Fatalf("%v day %d: humidity %.1f out of range", season, day, w.Humidity)
			}
			if w.RainfallMM < 0 {
				t.Fatalf("%v day %d: negative rainfall", season, day)
			}
			if w.Sky == "" {
				t.Fatalf("%v day %d: empty sky", season, day)
			}
		}
	}
}

// Temperature follows a noise field, so adjacent days should drift rather
// than jump.
func TestDailyWeatherContinuity(t *testing.T) {
	svc := NewService(3)
	monsoon := state.MonsoonPrediction{Strength: "moderate"}

	prev := svc.DailyWeather(state.SeasonKharif, 1, monsoon)
	for day := 2; day <= 60; day++ {
		cur := svc.DailyWeather(state.SeasonKharif, day, monsoon)
		if diff := cur.TempMaxC - prev.TempMaxC; diff > 6 || diff < -6 {
			t.Errorf("day %d: temperature jumped %.1f°C", day, diff)
		}
		prev = cur
	}
}

func TestStrongMonsoonRaisesHumidity(t *testing.T) {
	var strongTotal, weakTotal float64
	strong := state.MonsoonPrediction{Strength: "strong"}
	weak := state.MonsoonPrediction{Strength: "weak"}

	svc := NewService(5)
	for day := 1; day <= 30; day++ {
		strongTotal += svc.DailyWeather(state.SeasonKharif, day, strong).Humidity
	}
	svc = NewService(5)
	for day := 1; day <= 30; day++ {
		weakTotal += svc.DailyWeather(state.SeasonKharif, day, weak).Humidity
	}

	if strongTotal <= weakTotal {
		t.Errorf("strong monsoon humidity %.0f not above weak %.0f", strongTotal, weakTotal)
	}
}

func TestForecastWindow(t *testing.T) {
	svc := NewService(9)
	monsoon := state.MonsoonPrediction{Strength: "moderate"}

	forecast := svc.Forecast(state.SeasonKharif, 10, 7, monsoon)
	if len(forecast) != 7 {
		t.Fatalf("forecast length = %d, want 7", len(forecast))
	}
	for i, c := range forecast {
		if c.Date == "" {
			t.Errorf("forecast day %d has empty date", i)
		}
	}
}

func TestRefreshPopulatesWeather(t *testing.T) {
	svc := NewService(11)
	gs := &state.GameState{
		Season: state.SeasonKharif,
		Farm:   state.Farm{Day: 20},
		Weather: state.Weather{
			Monsoon: state.MonsoonPrediction{Strength: "moderate"},
		},
	}

	svc.Refresh(gs)
	if gs.Weather.Current.Date == "" {
		t.Error("current conditions not populated")
	}
	if len(gs.Weather.Forecast) != 7 {
		t.Errorf("forecast length = %d, want 7", len(gs.Weather.Forecast))
	}
}
