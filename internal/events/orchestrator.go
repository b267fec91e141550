package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/harvest-hope/internal/risk"
	"github.com/talgya/harvest-hope/internal/state"
)

// ContentGenerator produces event content for a triggered threat.
type ContentGenerator interface {
	Generate(ctx context.Context, kind risk.ThreatKind, sev risk.Severity) (*ExtremeEvent, error)
}

// stateAwareGenerator is the optional upgrade a generator can offer to
// tailor content to the current game state.
type stateAwareGenerator interface {
	GenerateFor(ctx context.Context, gs *state.GameState, kind risk.ThreatKind, sev risk.Severity) (*ExtremeEvent, error)
}

// Orchestrator composes the risk assessment, the probabilistic trigger gate
// and the content generator into a single decision: does this tick produce
// an extreme event, and if so which one.
type Orchestrator struct {
	gate *risk.TriggerGate
	gen  ContentGenerator
}

// NewOrchestrator wires a gate and a generator together.
func NewOrchestrator(gate *risk.TriggerGate, gen ContentGenerator) *Orchestrator {
	return &Orchestrator{gate: gate, gen: gen}
}

// GenerateExtremeWeatherEvent assesses the game state, rolls the trigger
// gate at the aggregated risk level, and on a trigger generates an event
// for the dominant threat. A declined gate returns (nil, nil) without
// touching the generator. Generator errors are returned to the caller.
func (o *Orchestrator) GenerateExtremeWeatherEvent(ctx context.Context, gs *state.GameState) (*ExtremeEvent, error) {
	assessment := risk.Assess(gs)
	if !o.gate.ShouldTriggerAt(assessment.RiskLevel) {
		return nil, nil
	}

	threat, ok := assessment.Dominant()
	if !ok {
		// Gate can fire at the background low-risk rate with nothing
		// concrete to report.
		return nil, nil
	}

	var ev *ExtremeEvent
	var err error
	if sg, ok := o.gen.(stateAwareGenerator); ok {
		ev, err = sg.GenerateFor(ctx, gs, threat.Kind, threat.Severity)
	} else {
		ev, err = o.gen.Generate(ctx, threat.Kind, threat.Severity)
	}
	if err != nil {
		return nil, fmt.Errorf("generate event content: %w", err)
	}

	slog.Info("extreme event triggered",
		"event_id", ev.ID,
		"type", ev.Type,
		"threat", threat.Kind.String(),
		"severity", ev.Severity,
		"risk_level", assessment.RiskLevel,
	)
	return ev, nil
}
