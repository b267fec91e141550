// Package events turns a trigger decision into a displayable extreme event:
// a template catalog per threat kind, optional LLM customization, the
// choice-consequence calculator, and the orchestrator that composes the
// risk core with the content generator.
package events

import (
	"time"

	"github.com/talgya/harvest-hope/internal/risk"
)

// Choice is one option the player can take in response to an event.
type Choice struct {
	ID           string             `json:"id"`
	Text         string             `json:"text"`
	Cost         int64              `json:"cost"` // ₹ up-front cost, 0 for free options
	Consequences map[string]float64 `json:"consequences"`
}

// ExtremeEvent is a displayable crisis event presented to the player.
// Events are created fresh per trigger and never persisted by this package.
type ExtremeEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"` // template type, e.g. "severe_drought"
	Kind        risk.ThreatKind `json:"threat_kind"`
	Category    string          `json:"category"` // e.g. "extreme_weather"
	Severity    risk.Severity   `json:"severity"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Educational string          `json:"educational_content"`
	Choices     []Choice        `json:"choices"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// eventTTL is how long an unanswered event stays actionable.
const eventTTL = 7 * 24 * time.Hour
