// Package risk is the crisis risk assessment core: five independent threat
// assessors, a monotonic risk aggregator, precursor early warnings, and the
// probabilistic gate that decides whether a tick surfaces an extreme event.
// Everything here is a pure function of the game-state snapshot; the only
// randomness is the trigger gate's injected source.
package risk

// ThreatKind is a closed enumeration of the modeled threat categories.
// One assessor exists per kind; adding a kind means adding an assessor.
type ThreatKind uint8

const (
	ThreatDrought ThreatKind = iota
	ThreatFlood
	ThreatPestOutbreak
	ThreatEquipmentFailure
	ThreatHealthCrisis
)

func (k ThreatKind) String() string {
	switch k {
	case ThreatDrought:
		return "drought"
	case ThreatFlood:
		return "flood"
	case ThreatPestOutbreak:
		return "pest_outbreak"
	case ThreatEquipmentFailure:
		return "equipment_failure"
	case ThreatHealthCrisis:
		return "health_crisis"
	default:
		return "unknown"
	}
}

// Severity grades an individual threat.
type Severity uint8

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityModerate:
		return "moderate"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// RiskLevel classifies the whole assessment. Totally ordered:
// RiskLow < RiskModerate < RiskHigh < RiskCritical.
type RiskLevel uint8

const (
	RiskLow RiskLevel = iota
	RiskModerate
	RiskHigh
	RiskCritical
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskModerate:
		return "moderate"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Threat is a scored risk signal from one assessor. Probability is model
// confidence in [0,1], not a guaranteed outcome.
type Threat struct {
	Kind        ThreatKind `json:"type"`
	Probability float64    `json:"probability"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
}

// RiskAssessment is the aggregated verdict over all active threats.
// ImmediateThreats preserves assessor evaluation order: drought, flood,
// pest, equipment, financial.
type RiskAssessment struct {
	ImmediateThreats []Threat  `json:"immediate_threats"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// Dominant returns the active threat with the highest probability.
// Ties keep the earlier (reporting-order) threat.
func (a RiskAssessment) Dominant() (Threat, bool) {
	if len(a.ImmediateThreats) == 0 {
		return Threat{}, false
	}
	best := a.ImmediateThreats[0]
	for _, t := range a.ImmediateThreats[1:] {
		if t.Probability > best.Probability {
			best = t
		}
	}
	return best, true
}
