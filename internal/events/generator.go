package events

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talgya/harvest-hope/internal/llm"
	"github.com/talgya/harvest-hope/internal/risk"
	"github.com/talgya/harvest-hope/internal/state"
)

// Generator produces extreme events from the template catalog, optionally
// rewriting the description with the LLM. Template selection uses an
// injectable random source so tests stay deterministic.
type Generator struct {
	llm  *llm.Client
	roll func() float64
}

// NewGenerator returns a Generator. client may be nil (no LLM customization).
// A nil source falls back to math/rand.
func NewGenerator(client *llm.Client, source func() float64) *Generator {
	if source == nil {
		source = rand.Float64
	}
	return &Generator{llm: client, roll: source}
}

// Generate instantiates an event for the given threat kind and severity.
func (g *Generator) Generate(ctx context.Context, kind risk.ThreatKind, sev risk.Severity) (*ExtremeEvent, error) {
	templates := catalog[kind]
	if len(templates) == 0 {
		return nil, fmt.Errorf("no event templates for threat kind %q", kind)
	}

	idx := int(g.roll() * float64(len(templates)))
	if idx >= len(templates) {
		idx = len(templates) - 1
	}
	tmpl := templates[idx]

	now := time.Now().UTC()
	ev := &ExtremeEvent{
		ID:          uuid.NewString(),
		Type:        tmpl.typ,
		Kind:        kind,
		Category:    tmpl.category,
		Severity:    sev,
		Title:       tmpl.title,
		Description: tmpl.description,
		Educational: tmpl.educational,
		Choices:     cloneChoices(tmpl.choices),
		CreatedAt:   now,
		ExpiresAt:   now.Add(eventTTL),
	}
	return ev, nil
}

// GenerateFor is Generate plus situational customization of the description
// against the current game state. Customization failures fall back to the
// template text; only template selection can fail.
func (g *Generator) GenerateFor(ctx context.Context, gs *state.GameState, kind risk.ThreatKind, sev risk.Severity) (*ExtremeEvent, error) {
	ev, err := g.Generate(ctx, kind, sev)
	if err != nil {
		return nil, err
	}
	if g.llm.Enabled() && gs != nil {
		if desc, cerr := g.customize(ctx, ev, gs); cerr != nil {
			slog.Debug("event customization failed, keeping template text",
				"event_type", ev.Type, "error", cerr)
		} else if desc != "" {
			ev.Description = desc
		}
	}
	return ev, nil
}

const customizeSystem = `You write short in-world crisis descriptions for a farming simulation set in rural India. Respond with 2-3 sentences of event description only, no preamble, no JSON.`

func (g *Generator) customize(ctx context.Context, ev *ExtremeEvent, gs *state.GameState) (string, error) {
	prompt := fmt.Sprintf(
		"Event: %s\nBase description: %s\n\nFarmer situation:\n- Season: %s, day %d\n- Money: ₹%d\n- Crops growing: %d\n- Active loans: %d\n\nRewrite the description so it reflects this farmer's situation. Keep the same threat and tone.",
		ev.Title, ev.Description,
		gs.Season, gs.Farm.Day, gs.Farm.Money,
		len(gs.Farm.Crops), gs.Economics.ActiveLoans(),
	)
	text, err := g.llm.Complete(ctx, customizeSystem, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func cloneChoices(src []Choice) []Choice {
	out := make([]Choice, len(src))
	for i, c := range src {
		cons := make(map[string]float64, len(c.Consequences))
		for k, v := range c.Consequences {
			cons[k] = v
		}
		c.Consequences = cons
		out[i] = c
	}
	return out
}
