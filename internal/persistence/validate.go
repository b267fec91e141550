package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/harvest-hope/internal/state"
)

// saveSchema enforces the structural invariants of a save: the day stays
// inside the 120-day season, money inside sane bounds, risk fractions in
// [0,1], and the credit score inside the 300–850 band.
const saveSchema = `{
	"type": "object",
	"required": ["player_id", "season", "farm", "economics", "weather"],
	"properties": {
		"player_id": {"type": "string", "minLength": 1},
		"farm": {
			"type": "object",
			"required": ["day", "money"],
			"properties": {
				"day": {"type": "integer", "minimum": 1, "maximum": 120},
				"money": {"type": "integer", "minimum": -1000000, "maximum": 100000000},
				"soil_health": {"type": "number", "minimum": 0, "maximum": 100}
			}
		},
		"economics": {
			"type": "object",
			"properties": {
				"credit_score": {"type": "integer", "minimum": 300, "maximum": 850}
			}
		},
		"weather": {
			"type": "object",
			"properties": {
				"monsoon_prediction": {
					"type": "object",
					"properties": {
						"drought_risk": {"type": "number", "minimum": 0, "maximum": 1},
						"flood_risk": {"type": "number", "minimum": 0, "maximum": 1},
						"confidence": {"type": "number", "minimum": 0, "maximum": 1}
					}
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("save.schema.json", saveSchema)

// Validate checks a game state against the save schema.
func Validate(gs *state.GameState) error {
	if gs == nil {
		return fmt.Errorf("nil game state")
	}

	payload, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal for validation: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode for validation: %w", err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("save schema: %w", err)
	}
	return nil
}
