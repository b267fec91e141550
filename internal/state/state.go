// Package state defines the game-state snapshot consumed by the simulation
// subsystems. The snapshot is read-only for all consumers: the risk core,
// the market and finance engines observe it and never mutate it.
package state

// Season is the Indian agricultural calendar position.
type Season uint8

const (
	SeasonKharif Season = iota // Monsoon sowing, June–October
	SeasonRabi                 // Winter sowing, November–March
	SeasonZaid                 // Summer sowing, April–June
	SeasonOff                  // Between cycles
)

// String returns the season name used in player-facing text and saves.
func (s Season) String() string {
	switch s {
	case SeasonKharif:
		return "Kharif"
	case SeasonRabi:
		return "Rabi"
	case SeasonZaid:
		return "Zaid"
	default:
		return "Off-season"
	}
}

// GrowthStage tracks where a crop is in its lifecycle.
type GrowthStage uint8

const (
	StageSeedling GrowthStage = iota
	StageVegetative
	StageBudding
	StageFlowering
	StageMature
	StageHarvestable
)

func (g GrowthStage) String() string {
	switch g {
	case StageSeedling:
		return "seedling"
	case StageVegetative:
		return "vegetative"
	case StageBudding:
		return "budding"
	case StageFlowering:
		return "flowering"
	case StageMature:
		return "mature"
	case StageHarvestable:
		return "harvestable"
	default:
		return "unknown"
	}
}

// Crop is a planted field on the farm.
type Crop struct {
	Type        string      `json:"type"` // "rice", "wheat", "cotton", ...
	GrowthStage GrowthStage `json:"growth_stage"`
	Health      float64     `json:"health"` // 0–100
	AreaHa      float64     `json:"area_hectares"`
	PlantedDay  int         `json:"planted_day"`
}

// Equipment is a farm machine with a wear state.
type Equipment struct {
	Name      string  `json:"name"`
	Condition float64 `json:"condition"` // 0–100, below ~40 is failure-prone
}

// Farm holds the physical and liquid assets of the player's farm.
type Farm struct {
	Name       string      `json:"name"`
	Day        int         `json:"day"`   // Day within the current season, 1–120
	Money      int64       `json:"money"` // Liquid cash in ₹
	Crops      []Crop      `json:"crops"`
	Equipment  []Equipment `json:"equipment"`
	SoilHealth float64     `json:"soil_health"` // 0–100
	LandAreaHa float64     `json:"land_area_hectares"`
}

// LoanType distinguishes credit sources; informal credit carries
// dramatically higher interest.
type LoanType uint8

const (
	LoanBank LoanType = iota
	LoanMoneylender
	LoanGovernment
)

func (t LoanType) String() string {
	switch t {
	case LoanBank:
		return "bank"
	case LoanMoneylender:
		return "moneylender"
	case LoanGovernment:
		return "government"
	default:
		return "unknown"
	}
}

// Loan is an outstanding liability.
type Loan struct {
	ID         string   `json:"id"`
	Type       LoanType `json:"type"`
	Principal  float64  `json:"principal"`       // ₹ originally borrowed
	Remaining  float64  `json:"remaining"`       // ₹ still owed
	AnnualRate float64  `json:"annual_rate_pct"` // e.g. 36.0 for a moneylender
	TermMonths int      `json:"term_months"`
}

// HighInterest reports whether the loan is informal, debt-trap grade credit.
// Bank crop loans run 7%, government schemes 4%, moneylenders 36%.
func (l Loan) HighInterest() bool {
	return l.AnnualRate >= 24.0
}

// Economics holds the player's financial position outside farm assets.
type Economics struct {
	BankAccount  int64  `json:"bank_account"` // ₹ on deposit
	CreditScore  int    `json:"credit_score"` // 300–850
	Loans        []Loan `json:"loans"`
	HasInsurance bool   `json:"has_insurance"`
}

// OutstandingDebt is the total ₹ still owed across all loans.
func (e Economics) OutstandingDebt() float64 {
	var total float64
	for _, l := range e.Loans {
		total += l.Remaining
	}
	return total
}

// HasHighInterestDebt reports whether any active loan is informal credit.
func (e Economics) HasHighInterestDebt() bool {
	for _, l := range e.Loans {
		if l.Remaining > 0 && l.HighInterest() {
			return true
		}
	}
	return false
}

// ActiveLoans counts loans with a remaining balance.
func (e Economics) ActiveLoans() int {
	n := 0
	for _, l := range e.Loans {
		if l.Remaining > 0 {
			n++
		}
	}
	return n
}

// Conditions is one day of weather.
type Conditions struct {
	Date        string  `json:"date"`
	TempMinC    float64 `json:"temp_min_c"`
	TempMaxC    float64 `json:"temp_max_c"`
	Humidity    float64 `json:"humidity"` // Percent, 0–100
	RainfallMM  float64 `json:"rainfall_mm"`
	WindSpeedKH float64 `json:"wind_speed_kmh"`
	Sky         string  `json:"conditions"` // "clear", "rain", "heavy_rain", ...
}

// MonsoonPrediction is the seasonal outlook the weather service produced.
type MonsoonPrediction struct {
	Strength      string  `json:"strength"` // "weak", "moderate", "strong"
	TotalRainfall float64 `json:"total_rainfall_mm"`
	DroughtRisk   float64 `json:"drought_risk"` // 0–1
	FloodRisk     float64 `json:"flood_risk"`   // 0–1
	Confidence    float64 `json:"confidence"`   // 0–1
	ArrivalDate   string  `json:"arrival_date"`
}

// Weather bundles current conditions, the short forecast, and the
// seasonal monsoon outlook.
type Weather struct {
	Current  Conditions        `json:"current"`
	Forecast []Conditions      `json:"forecast"` // Up to 7 days
	Monsoon  MonsoonPrediction `json:"monsoon_prediction"`
}

// ForecastRainfall sums the rainfall across the forecast window.
func (w Weather) ForecastRainfall() float64 {
	var total float64
	for _, c := range w.Forecast {
		total += c.RainfallMM
	}
	return total
}

// GameState is one snapshot of the whole game. Subsystems treat it as
// immutable for the duration of a call; only the tick driver writes it.
type GameState struct {
	PlayerID  string    `json:"player_id"`
	Season    Season    `json:"season"`
	Farm      Farm      `json:"farm"`
	Economics Economics `json:"economics"`
	Weather   Weather   `json:"weather"`
}
