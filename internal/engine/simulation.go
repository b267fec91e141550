// Simulation ties the farm subsystems together and runs them each day.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talgya/harvest-hope/internal/events"
	"github.com/talgya/harvest-hope/internal/finance"
	"github.com/talgya/harvest-hope/internal/market"
	"github.com/talgya/harvest-hope/internal/meteo"
	"github.com/talgya/harvest-hope/internal/risk"
	"github.com/talgya/harvest-hope/internal/state"
)

// Crop growth pacing and daily equipment wear.
const (
	daysPerGrowthStage = 20
	dailyEquipmentWear = 0.15
	loanCycleDays      = 30
)

// Journal is a notable occurrence worth surfacing to observers.
type Journal struct {
	Day         int    `json:"day"`
	Description string `json:"description"`
	Category    string `json:"category"` // "weather", "finance", "warning", "crisis", "harvest"
}

// Simulation holds the live game state and wires the subsystems together.
// The tick loop and the API handlers touch it from different goroutines;
// ticks take the write lock, observers take the read lock (RLock/RUnlock).
type Simulation struct {
	mu sync.RWMutex

	State        *state.GameState
	Weather      *meteo.Service
	Market       *market.Service
	Orchestrator *events.Orchestrator

	// Latest per-crop market quotes, refreshed daily.
	Quotes map[string]market.Quote

	// Active advisories and unanswered crisis events.
	Warnings []string
	Pending  []*events.ExtremeEvent

	Entries []Journal

	subMu   sync.Mutex
	subs    map[uint64]chan Journal
	nextSub uint64
}

// NewSimulation assembles a simulation around an initial game state.
func NewSimulation(gs *state.GameState, weather *meteo.Service, mkt *market.Service, orch *events.Orchestrator) *Simulation {
	sim := &Simulation{
		State:        gs,
		Weather:      weather,
		Market:       mkt,
		Orchestrator: orch,
		Quotes:       make(map[string]market.Quote),
	}
	weather.Refresh(gs)
	sim.refreshQuotes()
	return sim
}

func (s *Simulation) record(category, description string) {
	entry := Journal{
		Day:         s.State.Farm.Day,
		Description: description,
		Category:    category,
	}
	s.Entries = append(s.Entries, entry)
	// Bounded journal; observers only ever read the recent tail.
	if len(s.Entries) > 500 {
		s.Entries = s.Entries[len(s.Entries)-500:]
	}

	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- entry:
		default: // Slow subscriber, drop rather than stall the tick.
		}
	}
	s.subMu.Unlock()
}

// Subscribe registers a journal listener and returns its id and channel.
func (s *Simulation) Subscribe() (uint64, <-chan Journal) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs == nil {
		s.subs = make(map[uint64]chan Journal)
	}
	s.nextSub++
	ch := make(chan Journal, 64)
	s.subs[s.nextSub] = ch
	return s.nextSub, ch
}

// Unsubscribe removes a journal listener and closes its channel.
func (s *Simulation) Unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// Lock takes the write lock for callers mutating simulation state outside
// the tick path (crisis resolution).
func (s *Simulation) Lock() { s.mu.Lock() }

// Unlock releases the write lock.
func (s *Simulation) Unlock() { s.mu.Unlock() }

// RLock takes the read lock for observers of simulation state.
func (s *Simulation) RLock() { s.mu.RLock() }

// RUnlock releases the read lock.
func (s *Simulation) RUnlock() { s.mu.RUnlock() }

// TickDay advances the farm one day: weather, crop growth, equipment wear,
// loan servicing, market movement, then the crisis pipeline.
func (s *Simulation) TickDay(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs := s.State

	if gs.Farm.Day < DaysPerSeason {
		gs.Farm.Day++
	}

	s.Weather.Refresh(gs)
	s.growCrops()
	s.wearEquipment()

	if gs.Farm.Day%loanCycleDays == 0 {
		s.serviceLoans()
	}

	s.refreshQuotes()

	assessment := risk.Assess(gs)
	s.Warnings = risk.EarlyWarnings(gs)
	for _, w := range s.Warnings {
		slog.Info("early warning", "day", gs.Farm.Day, "advisory", w)
		s.record("warning", w)
	}

	ev, err := s.Orchestrator.GenerateExtremeWeatherEvent(ctx, gs)
	if err != nil {
		slog.Error("event generation failed", "day", gs.Farm.Day, "error", err)
	} else if ev != nil {
		s.Pending = append(s.Pending, ev)
		s.record("crisis", ev.Title)
	}

	slog.Debug("day complete",
		"day", gs.Farm.Day,
		"season", gs.Season,
		"money", gs.Farm.Money,
		"risk_level", assessment.RiskLevel,
		"threats", len(assessment.ImmediateThreats),
	)
}

// growCrops applies the day's weather to every planted crop and advances
// growth stages on the accumulated pace.
func (s *Simulation) growCrops() {
	gs := s.State
	for i := range gs.Farm.Crops {
		crop := &gs.Farm.Crops[i]
		impact := meteo.CropImpact(gs.Weather.Current, crop.Type, crop.GrowthStage)

		crop.Health = clamp(crop.Health+impact.HealthChange, 0, 100)

		age := float64(gs.Farm.Day - crop.PlantedDay)
		if age < 0 {
			age = 0
		}
		stage := int(age * impact.GrowthRate / daysPerGrowthStage)
		if stage > int(state.StageHarvestable) {
			stage = int(state.StageHarvestable)
		}
		if next := state.GrowthStage(stage); next > crop.GrowthStage {
			crop.GrowthStage = next
			s.record("weather", crop.Type+" reached "+next.String()+" stage")
		}
	}
}

// wearEquipment applies daily wear; heavy rain accelerates it.
func (s *Simulation) wearEquipment() {
	gs := s.State
	wear := dailyEquipmentWear
	if gs.Weather.Current.RainfallMM > 25 {
		wear *= 1.5
	}
	for i := range gs.Farm.Equipment {
		eq := &gs.Farm.Equipment[i]
		eq.Condition = clamp(eq.Condition-wear, 0, 100)
	}
}

// serviceLoans pays each loan's monthly installment from farm cash.
// A missed payment adds the overdue penalty to the balance and dents the
// credit score.
func (s *Simulation) serviceLoans() {
	gs := s.State
	for i := range gs.Economics.Loans {
		loan := &gs.Economics.Loans[i]
		if loan.Remaining <= 0 {
			continue
		}

		emi, err := finance.CalculateEMI(loan.Principal, loan.AnnualRate, loan.TermMonths)
		if err != nil {
			slog.Error("loan servicing skipped", "loan", loan.ID, "error", err)
			continue
		}
		due := emi.EMIAmount
		if due > loan.Remaining {
			due = loan.Remaining
		}

		if gs.Farm.Money >= int64(due) {
			gs.Farm.Money -= int64(due)
			interest := loan.Remaining * loan.AnnualRate / (12 * 100)
			loan.Remaining -= due - interest
			if loan.Remaining < 0 {
				loan.Remaining = 0
			}
			gs.Economics.CreditScore = finance.UpdateCreditScore(
				gs.Economics.CreditScore, finance.PaymentOnTime, 0)
			s.record("finance", "EMI paid on "+loan.Type.String()+" loan")
		} else {
			penalty := finance.Penalty(due, loanCycleDays, loan.Type)
			loan.Remaining += penalty
			gs.Economics.CreditScore = finance.UpdateCreditScore(
				gs.Economics.CreditScore, finance.PaymentMissed, 0)
			s.record("finance", "missed EMI on "+loan.Type.String()+" loan")
			slog.Warn("missed loan payment",
				"loan", loan.ID, "due", due, "penalty", penalty,
				"credit_score", gs.Economics.CreditScore)
		}
	}
}

// refreshQuotes re-prices every crop the farm is growing.
func (s *Simulation) refreshQuotes() {
	gs := s.State
	for _, crop := range gs.Farm.Crops {
		if _, ok := s.Quotes[crop.Type]; ok {
			continue
		}
		s.Quotes[crop.Type] = market.Quote{}
	}
	for cropType := range s.Quotes {
		s.Quotes[cropType] = s.Market.SimulatePrice(
			cropType, gs.Season, gs.Weather, market.SupplyFactors{}, market.DemandFactors{})
	}
}

// TickSeason harvests what is ready, rolls the calendar to the next
// season, and issues a fresh monsoon outlook.
func (s *Simulation) TickSeason() {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs := s.State

	s.harvest()

	gs.Season = nextSeason(gs.Season)
	gs.Farm.Day = 1
	gs.Weather.Monsoon = s.Weather.PredictMonsoon(gs.Season)
	s.Weather.Refresh(gs)

	slog.Info("season turned",
		"season", gs.Season,
		"monsoon", meteo.Describe(gs.Weather.Monsoon),
	)
	s.record("weather", "season turned to "+gs.Season.String())
}

// assumed yield per hectare at full health, in quintals.
const baseYieldQuintalsPerHa = 20.0

// harvest sells every harvestable crop at the current quote and clears it.
func (s *Simulation) harvest() {
	gs := s.State
	var kept []state.Crop
	for _, crop := range gs.Farm.Crops {
		if crop.GrowthStage < state.StageHarvestable {
			kept = append(kept, crop)
			continue
		}
		quote, ok := s.Quotes[crop.Type]
		if !ok {
			quote = s.Market.SimulatePrice(crop.Type, gs.Season, gs.Weather,
				market.SupplyFactors{}, market.DemandFactors{})
		}

		yield := baseYieldQuintalsPerHa * crop.AreaHa * (crop.Health / 100)
		revenue := int64(yield * quote.CurrentPrice)
		gs.Farm.Money += revenue
		s.record("harvest", crop.Type+" harvested")
		slog.Info("crop harvested",
			"crop", crop.Type, "yield_quintals", yield, "revenue", revenue)
	}
	gs.Farm.Crops = kept
}

func nextSeason(s state.Season) state.Season {
	switch s {
	case state.SeasonKharif:
		return state.SeasonRabi
	case state.SeasonRabi:
		return state.SeasonZaid
	case state.SeasonZaid:
		return state.SeasonOff
	default:
		return state.SeasonKharif
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
