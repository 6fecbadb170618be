// internal/game/settings.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/codenames/internal/engine"
)

// UpdateSettings applies an untyped overrides map (as decoded from a lobby
// request body) onto a copy of current. Keys that are absent or nil keep
// their old value. Returns the merged settings or the first type/range
// error.
func UpdateSettings(current engine.Settings, overrides map[string]interface{}) (engine.Settings, error) {
	merged := current

	assignInt := func(field *int, key string, minVal int) error {
		val, exists := overrides[key]
		if !exists || val == nil {
			return nil
		}
		// JSON numbers decode as float64; accept int for callers that build
		// the map in Go.
		switch v := val.(type) {
		case float64:
			*field = int(v)
		case int:
			*field = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if *field < minVal {
			return fmt.Errorf("%s must be at least %d", key, minVal)
		}
		return nil
	}

	if err := assignInt(&merged.StartingTeamCards, "startingTeamCards", 1); err != nil {
		return current, err
	}
	if err := assignInt(&merged.OtherTeamCards, "otherTeamCards", 1); err != nil {
		return current, err
	}
	if err := assignInt(&merged.BystanderCards, "bystanderCards", 0); err != nil {
		return current, err
	}
	if err := assignInt(&merged.AssassinCards, "assassinCards", 0); err != nil {
		return current, err
	}

	// The starting team's extra card is what offsets the first-move
	// advantage; a board where it trails the other team is misconfigured.
	if merged.StartingTeamCards <= merged.OtherTeamCards {
		return current, fmt.Errorf("startingTeamCards must exceed otherTeamCards")
	}
	return merged, nil
}
