package risk

import (
	"math/rand/v2"

	"github.com/talgya/harvest-hope/internal/state"
)

// Per-call trigger probabilities by risk level. Critical must all but
// guarantee a trigger within ~10 sustained calls (1 − 0.25¹⁰ ≈ 0.9999999);
// low must stay quiet across a 20-call window (expected 1 trigger).
const (
	triggerChanceLow      = 0.05
	triggerChanceModerate = 0.12
	triggerChanceHigh     = 0.30
	triggerChanceCritical = 0.75
)

// TriggerGate decides probabilistically whether the current tick should
// surface an extreme event. The gate is memoryless: nothing carries over
// between calls, and callers own the tick cadence.
type TriggerGate struct {
	source func() float64 // uniform in [0,1)
}

// NewTriggerGate builds a gate around the given random source. A nil
// source falls back to math/rand; production wiring injects the entropy
// client and tests inject deterministic stubs.
func NewTriggerGate(source func() float64) *TriggerGate {
	if source == nil {
		source = rand.Float64
	}
	return &TriggerGate{source: source}
}

// ShouldTrigger assesses the snapshot and rolls the gate for its risk level.
func (g *TriggerGate) ShouldTrigger(gs *state.GameState) bool {
	return g.ShouldTriggerAt(Assess(gs).RiskLevel)
}

// ShouldTriggerAt rolls the gate for an already-computed risk level.
// The orchestrator uses this form to avoid assessing twice per tick.
func (g *TriggerGate) ShouldTriggerAt(level RiskLevel) bool {
	return g.source() < TriggerChance(level)
}

// TriggerChance returns the per-call trigger probability for a risk level.
func TriggerChance(level RiskLevel) float64 {
	switch level {
	case RiskCritical:
		return triggerChanceCritical
	case RiskHigh:
		return triggerChanceHigh
	case RiskModerate:
		return triggerChanceModerate
	default:
		return triggerChanceLow
	}
}
