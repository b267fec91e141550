// Package meteo is the weather service: seasonal monsoon outlooks, daily
// weather generation, and crop impact scoring. Daily values are smoothed
// with layered simplex noise so consecutive days drift instead of jumping.
package meteo

import (
	"fmt"
	"math/rand/v2"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/talgya/harvest-hope/internal/state"
)

// monsoonPattern holds the historical envelope for one monsoon strength.
type monsoonPattern struct {
	rainfallMin float64 // Season total, mm
	rainfallMax float64
	droughtRisk float64
	floodRisk   float64
}

var monsoonPatterns = map[string]monsoonPattern{
	"weak":     {rainfallMin: 400, rainfallMax: 600, droughtRisk: 0.4, floodRisk: 0.05},
	"moderate": {rainfallMin: 600, rainfallMax: 1000, droughtRisk: 0.2, floodRisk: 0.15},
	"strong":   {rainfallMin: 1000, rainfallMax: 1500, droughtRisk: 0.05, floodRisk: 0.35},
}

// seasonPattern is the daily-weather envelope for one agricultural season.
type seasonPattern struct {
	tempMin  float64
	tempMax  float64
	humidMin float64
	humidMax float64
	rainProb float64
	windMin  float64
	windMax  float64
}

var seasonPatterns = map[state.Season]seasonPattern{
	state.SeasonKharif: {tempMin: 25, tempMax: 35, humidMin: 70, humidMax: 90, rainProb: 0.7, windMin: 10, windMax: 25},
	state.SeasonRabi:   {tempMin: 15, tempMax: 25, humidMin: 40, humidMax: 60, rainProb: 0.2, windMin: 5, windMax: 15},
	state.SeasonZaid:   {tempMin: 30, tempMax: 45, humidMin: 30, humidMax: 50, rainProb: 0.1, windMin: 15, windMax: 30},
	state.SeasonOff:    {tempMin: 20, tempMax: 30, humidMin: 50, humidMax: 70, rainProb: 0.3, windMin: 8, windMax: 20},
}

// Service generates weather. The noise layers give day-to-day continuity;
// the PRNG drives the discrete choices (does it rain, monsoon strength).
type Service struct {
	rng        *rand.Rand
	tempNoise  opensimplex.Noise
	humidNoise opensimplex.Noise
	rainNoise  opensimplex.Noise
	now        func() time.Time
}

// NewService builds a weather service from a seed. The same seed replays
// the same season of weather.
func NewService(seed int64) *Service {
	return &Service{
		rng:        rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		tempNoise:  opensimplex.NewNormalized(seed),
		humidNoise: opensimplex.NewNormalized(seed + 1),
		rainNoise:  opensimplex.NewNormalized(seed + 2),
		now:        time.Now,
	}
}

// strengthWeights favors moderate monsoons in Kharif and weak ones in the
// dry seasons.
func strengthWeights(season state.Season) [3]float64 {
	switch season {
	case state.SeasonKharif:
		return [3]float64{0.2, 0.6, 0.2} // weak, moderate, strong
	case state.SeasonRabi:
		return [3]float64{0.5, 0.4, 0.1}
	default:
		return [3]float64{0.6, 0.3, 0.1}
	}
}

// PredictMonsoon produces the seasonal outlook the risk assessors read.
func (s *Service) PredictMonsoon(season state.Season) state.MonsoonPrediction {
	weights := strengthWeights(season)
	roll := s.rng.Float64()
	strength := "strong"
	switch {
	case roll < weights[0]:
		strength = "weak"
	case roll < weights[0]+weights[1]:
		strength = "moderate"
	}

	pattern := monsoonPatterns[strength]
	rainfall := pattern.rainfallMin + s.rng.Float64()*(pattern.rainfallMax-pattern.rainfallMin)

	arrivalDays := 30 + s.rng.IntN(91)
	if season == state.SeasonKharif {
		arrivalDays = 10 + s.rng.IntN(51)
	}

	return state.MonsoonPrediction{
		Strength:      strength,
		TotalRainfall: rainfall,
		DroughtRisk:   clamp01(pattern.droughtRisk + (s.rng.Float64()-0.5)*0.2),
		FloodRisk:     clamp01(pattern.floodRisk + (s.rng.Float64()-0.5)*0.1),
		Confidence:    0.6 + s.rng.Float64()*0.3,
		ArrivalDate:   s.now().AddDate(0, 0, arrivalDays).Format("2006-01-02"),
	}
}

// DailyWeather generates conditions for one day of the season. Temperature
// and humidity follow the noise field sampled along the day axis, so day 41
// resembles day 40.
func (s *Service) DailyWeather(season state.Season, day int, monsoon state.MonsoonPrediction) state.Conditions {
	pattern, ok := seasonPatterns[season]
	if !ok {
		pattern = seasonPatterns[state.SeasonKharif]
	}

	d := float64(day)
	tempMin := lerp(pattern.tempMin, pattern.tempMax, octave(s.tempNoise, d, 3)) - 5
	tempMax := tempMin + 8 + 7*octave(s.tempNoise, d+1000, 3)

	humidity := lerp(pattern.humidMin, pattern.humidMax, octave(s.humidNoise, d, 3))
	switch monsoon.Strength {
	case "strong":
		humidity = min(95, humidity+10)
	case "weak":
		humidity = max(20, humidity-10)
	}

	var rainfall float64
	sky := "clear"
	if s.rng.Float64() < pattern.rainProb {
		wet := octave(s.rainNoise, d, 2)
		switch monsoon.Strength {
		case "strong":
			rainfall = 10 + wet*40
			sky = "rain"
			if rainfall > 25 {
				sky = "heavy_rain"
			}
		case "moderate":
			rainfall = 2 + wet*18
			sky = "light_rain"
			if rainfall > 10 {
				sky = "rain"
			}
		default:
			rainfall = wet * 5
			sky = "cloudy"
			if rainfall > 2 {
				sky = "light_rain"
			}
		}
	} else {
		switch {
		case humidity > 80:
			sky = "cloudy"
		case tempMax > 40:
			sky = "hot"
		}
	}

	wind := pattern.windMin + s.rng.Float64()*(pattern.windMax-pattern.windMin)

	return state.Conditions{
		Date:        s.now().AddDate(0, 0, day).Format("2006-01-02"),
		TempMinC:    round1(tempMin),
		TempMaxC:    round1(tempMax),
		Humidity:    round1(humidity),
		RainfallMM:  round1(rainfall),
		WindSpeedKH: round1(wind),
		Sky:         sky,
	}
}

// Forecast produces the rolling window starting the day after startDay.
func (s *Service) Forecast(season state.Season, startDay, days int, monsoon state.MonsoonPrediction) []state.Conditions {
	out := make([]state.Conditions, 0, days)
	for i := 1; i <= days; i++ {
		out = append(out, s.DailyWeather(season, startDay+i, monsoon))
	}
	return out
}

// Refresh regenerates the weather block of a game state for its current day.
func (s *Service) Refresh(gs *state.GameState) {
	gs.Weather.Current = s.DailyWeather(gs.Season, gs.Farm.Day, gs.Weather.Monsoon)
	gs.Weather.Forecast = s.Forecast(gs.Season, gs.Farm.Day, 7, gs.Weather.Monsoon)
}

// octave layers noise frequencies along a single axis; result is in [0,1].
func octave(noise opensimplex.Noise, x float64, octaves int) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := 0.05

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, 0) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxVal
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// Describe renders the outlook for logs and the status endpoint.
func Describe(m state.MonsoonPrediction) string {
	return fmt.Sprintf("%s monsoon, %.0fmm expected (drought %.0f%%, flood %.0f%%, confidence %.0f%%)",
		m.Strength, m.TotalRainfall, m.DroughtRisk*100, m.FloodRisk*100, m.Confidence*100)
}
