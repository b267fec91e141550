package risk

import "github.com/talgya/harvest-hope/internal/state"

// assessor is a total function from a snapshot to at most one threat.
type assessor func(*state.GameState) (Threat, bool)

// assessors run in reporting order. The order is presentational only —
// no assessor reads another's output.
var assessors = []assessor{
	assessDrought,
	assessFlood,
	assessPestOutbreak,
	assessEquipmentFailure,
	assessFinancialCrisis,
}

// Assess runs every threat assessor over the snapshot and classifies the
// combined risk level. It never fails: missing or zero-valued optional
// fields read as the lowest-risk interpretation inside each assessor.
func Assess(gs *state.GameState) RiskAssessment {
	var threats []Threat
	for _, fn := range assessors {
		if t, ok := fn(gs); ok {
			threats = append(threats, t)
		}
	}
	return RiskAssessment{
		ImmediateThreats: threats,
		RiskLevel:        classify(threats),
	}
}

// classify maps the active threat set to a risk level. The rule is
// monotonic: adding a threat, or raising any threat's probability or
// severity, never lowers the level.
func classify(threats []Threat) RiskLevel {
	if len(threats) == 0 {
		return RiskLow
	}

	maxProb := 0.0
	maxSev := SeverityLow
	financial := false
	for _, t := range threats {
		if t.Probability > maxProb {
			maxProb = t.Probability
		}
		if t.Severity > maxSev {
			maxSev = t.Severity
		}
		if t.Kind == ThreatHealthCrisis {
			financial = true
		}
	}

	switch {
	case maxSev == SeverityCritical:
		return RiskCritical
	case financial && len(threats) >= 2:
		// Financial distress compounds every other crisis.
		return RiskCritical
	case maxProb > 0.7:
		return RiskCritical
	case maxProb >= 0.45 || len(threats) >= 3 || maxSev >= SeverityHigh:
		return RiskHigh
	default:
		return RiskModerate
	}
}
