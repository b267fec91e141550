// Package market simulates crop prices around the MSP (Minimum Support
// Price) floor and scores the selling channels available to the farmer.
package market

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/talgya/harvest-hope/internal/state"
)

// msp is the government support price per quintal in ₹ (sugarcane per tonne).
var msp = map[string]float64{
	"wheat":     2125,
	"rice":      2183,
	"cotton":    6080,
	"sugarcane": 315,
	"maize":     1962,
	"soybean":   4300,
	"mustard":   5450,
	"gram":      5335,
	"tur":       6600,
	"groundnut": 5850,
	"sunflower": 6400,
	"sesame":    7307,
	"safflower": 5441,
	"nigerseed": 7287,
	"linseed":   5940,
}

const defaultMSP = 2000

// MSP returns the support price for a crop, or the generic floor for
// crops outside the procurement list.
func MSP(cropType string) float64 {
	if v, ok := msp[cropType]; ok {
		return v
	}
	return defaultMSP
}

// SupplyFactors describe the supply side of the market, relative to normal.
type SupplyFactors struct {
	LocalProduction float64 // 1.0 is a normal harvest
	StorageLevels   float64 // 0 empty to 1 full
	Imports         float64 // 1.0 is normal import volume
}

// DemandFactors describe the demand side, relative to normal.
type DemandFactors struct {
	PopulationGrowth float64 // e.g. 1.02
	ExportDemand     float64
	IndustrialUse    float64
}

// Trend is a short-horizon price direction forecast.
type Trend struct {
	Direction    string  `json:"direction"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
	ForecastDays int     `json:"forecast_days"`
}

// Quote is one simulated market price with its drivers.
type Quote struct {
	CropType     string             `json:"crop_type"`
	CurrentPrice float64            `json:"current_price"`
	MSP          float64            `json:"msp"`
	PriceVsMSP   float64            `json:"price_vs_msp_pct"`
	Trend        Trend              `json:"trend"`
	Factors      map[string]float64 `json:"factors"`
	Sentiment    string             `json:"market_sentiment"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Service simulates prices. The PRNG drives volatility and trend choice;
// the mutex keeps it safe for concurrent quote requests.
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewService builds a price simulator from a seed.
func NewService(seed int64) *Service {
	return &Service{
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)*0x2545f4914f6cdd1d)),
		now: time.Now,
	}
}

// SimulatePrice produces a market quote for the crop under the given
// conditions. Prices never fall below 50% MSP (government intervention),
// and only an extreme shortage pushes them past 200% MSP.
func (s *Service) SimulatePrice(cropType string, season state.Season, weather state.Weather, supply SupplyFactors, demand DemandFactors) Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := MSP(cropType)
	price := base * 1.1 // Normal market clears above support

	weatherMult := weatherImpact(weather)
	seasonMult := seasonalDemand(cropType, season)
	supplyMult := supplyImpact(supply)
	demandMult := demandImpact(demand)
	volatility := 0.95 + s.rng.Float64()*0.10

	price *= weatherMult * seasonMult * supplyMult * demandMult * volatility

	if price < base*0.5 {
		price = base * 0.5
	}
	if price > base*2.0 && s.rng.Float64() > 0.05 {
		price = base * (1.5 + s.rng.Float64()*0.5)
	}

	return Quote{
		CropType:     cropType,
		CurrentPrice: round2(price),
		MSP:          base,
		PriceVsMSP:   round1(price / base * 100),
		Trend:        s.predictTrend(price, base),
		Factors: map[string]float64{
			"weather_impact":   round1((weatherMult - 1) * 100),
			"seasonal_demand":  round1((seasonMult - 1) * 100),
			"supply_situation": round1((supplyMult - 1) * 100),
			"demand_situation": round1((demandMult - 1) * 100),
		},
		Sentiment: Sentiment(price, base),
		Timestamp: s.now(),
	}
}

// weatherImpact raises prices when the growing conditions threaten supply.
func weatherImpact(w state.Weather) float64 {
	rainfall := w.Current.RainfallMM + w.ForecastRainfall()

	rainFactor := 1.0
	switch {
	case rainfall < 40:
		rainFactor = 1.0 + (40-rainfall)*0.01
	case rainfall > 80:
		rainFactor = 1.0 + (rainfall-80)*0.005
	}

	droughtFactor := 1.0 + w.Monsoon.DroughtRisk*0.3
	floodFactor := 1.0 + w.Monsoon.FloodRisk*0.25

	return rainFactor * droughtFactor * floodFactor
}

// seasonalDemand captures harvest-cycle demand swings for the major crops.
func seasonalDemand(cropType string, season state.Season) float64 {
	patterns := map[string]map[state.Season]float64{
		"wheat": {
			state.SeasonKharif: 0.9, state.SeasonRabi: 1.2,
			state.SeasonZaid: 1.0, state.SeasonOff: 1.1,
		},
		"rice": {
			state.SeasonKharif: 1.3, state.SeasonRabi: 0.9,
			state.SeasonZaid: 1.0, state.SeasonOff: 1.1,
		},
		"cotton": {
			state.SeasonKharif: 1.2, state.SeasonRabi: 1.4,
			state.SeasonZaid: 0.8, state.SeasonOff: 0.9,
		},
	}
	if m, ok := patterns[cropType]; ok {
		if v, ok := m[season]; ok {
			return v
		}
	}
	return 1.0
}

func supplyImpact(f SupplyFactors) float64 {
	if f == (SupplyFactors{}) {
		f = SupplyFactors{LocalProduction: 1.0, StorageLevels: 0.5, Imports: 1.0}
	}
	productionFactor := 2.0 - f.LocalProduction
	storageFactor := 1.0 + (0.5-f.StorageLevels)*0.2
	importFactor := 2.0 - f.Imports
	return (productionFactor + storageFactor + importFactor) / 3
}

func demandImpact(f DemandFactors) float64 {
	if f == (DemandFactors{}) {
		f = DemandFactors{PopulationGrowth: 1.02, ExportDemand: 1.0, IndustrialUse: 1.0}
	}
	return f.PopulationGrowth * f.ExportDemand * f.IndustrialUse
}

func (s *Service) predictTrend(price, base float64) Trend {
	ratio := price / base
	switch {
	case ratio > 1.5:
		return Trend{Direction: "declining", Confidence: 0.7,
			Reason: "High prices likely to attract more supply", ForecastDays: 30}
	case ratio < 0.8:
		return Trend{Direction: "rising", Confidence: 0.8,
			Reason: "Low prices may trigger government intervention", ForecastDays: 30}
	default:
		directions := []string{"stable", "slightly_rising", "slightly_declining"}
		return Trend{Direction: directions[s.rng.IntN(len(directions))], Confidence: 0.5,
			Reason: "Normal market conditions with typical volatility", ForecastDays: 30}
	}
}

// Sentiment buckets the price-to-MSP ratio into trader mood.
func Sentiment(price, base float64) string {
	ratio := price / base
	switch {
	case ratio >= 1.5:
		return "very_bullish"
	case ratio >= 1.2:
		return "bullish"
	case ratio >= 0.9:
		return "neutral"
	case ratio >= 0.7:
		return "bearish"
	default:
		return "very_bearish"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
