package events

import (
	"fmt"
)

// Outcome is the resolved result of a player's choice on an event.
type Outcome struct {
	ChoiceMade string             `json:"choice_made"`
	Cost       int64              `json:"cost"`
	Immediate  map[string]float64 `json:"immediate_effects"`
	LongTerm   map[string]float64 `json:"long_term_effects"`
	Lesson     Lesson             `json:"educational_impact"`
}

// Lesson records what the player should take away from the crisis.
type Lesson struct {
	Topic            string `json:"topic"`
	LessonLearned    string `json:"lesson_learned"`
	CrisisExperience bool   `json:"crisis_experience"`
}

// immediateEffects routes raw consequence keys to named immediate effects.
var immediateEffects = map[string]string{
	"immediate_cash":      "money_change",
	"debt":                "debt_increase",
	"crop_yield":          "yield_change",
	"yield_reduction":     "yield_change",
	"crop_loss":           "crop_damage",
	"crop_survival":       "survival_rate",
	"pest_control":        "pest_reduction",
	"equipment_restored":  "equipment_status",
	"family_safety":       "safety_level",
	"property_protection": "property_saved",
	"family_health":       "health_improvement",
	"stress_level":        "stress_change",
}

// longTermEffects routes raw consequence keys to named long-term effects.
var longTermEffects = map[string]string{
	"crop_damage_risk":     "damage_risk",
	"water_access":         "water_improvement",
	"environmental_impact": "environmental_damage",
	"community_respect":    "social_standing",
	"community_unity":      "community_bonds",
	"future_protection":    "disaster_preparedness",
	"skill_improvement":    "farmer_skills",
	"debt_trap_risk":       "financial_vulnerability",
}

// severeTypes get the harsher financial multiplier.
var severeTypes = map[string]bool{
	"severe_drought":  true,
	"flash_flood":     true,
	"cyclone_warning": true,
	"locust_swarm":    true,
}

var emergencyTypes = map[string]bool{
	"equipment_failure": true,
	"health_emergency":  true,
	"fire_accident":     true,
}

var lessonTopics = map[string]string{
	"severe_drought":    "drought_management",
	"flash_flood":       "flood_preparedness",
	"cyclone_warning":   "disaster_preparedness",
	"locust_swarm":      "pest_management",
	"pest_outbreak":     "integrated_pest_management",
	"equipment_failure": "farm_equipment_maintenance",
	"health_emergency":  "rural_healthcare_planning",
	"fire_accident":     "farm_safety_protocols",
}

// severityMultiplier scales the financial impact of a choice by how grave
// the event type is.
func severityMultiplier(eventType string) float64 {
	switch {
	case severeTypes[eventType]:
		return 1.5
	case emergencyTypes[eventType]:
		return 1.3
	default:
		return 1.0
	}
}

// ResolveChoice computes the outcome of picking choiceID on ev.
func ResolveChoice(ev *ExtremeEvent, choiceID string) (*Outcome, error) {
	var chosen *Choice
	for i := range ev.Choices {
		if ev.Choices[i].ID == choiceID {
			chosen = &ev.Choices[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("event %s has no choice %q", ev.ID, choiceID)
	}

	out := &Outcome{
		ChoiceMade: chosen.Text,
		Cost:       chosen.Cost,
		Immediate:  make(map[string]float64),
		LongTerm:   make(map[string]float64),
	}

	for key, val := range chosen.Consequences {
		if name, ok := immediateEffects[key]; ok {
			out.Immediate[name] = val
		} else if name, ok := longTermEffects[key]; ok {
			out.LongTerm[name] = val
		}
	}

	mult := severityMultiplier(ev.Type)
	if v, ok := out.Immediate["money_change"]; ok {
		out.Immediate["money_change"] = float64(int64(v * mult))
	}
	if v, ok := out.Immediate["debt_increase"]; ok {
		out.Immediate["debt_increase"] = float64(int64(v * mult))
	}

	topic, known := lessonTopics[ev.Type]
	if !known {
		topic = ev.Type
	}
	out.Lesson = Lesson{
		Topic:            topic,
		LessonLearned:    ev.Educational,
		CrisisExperience: known,
	}
	return out, nil
}
