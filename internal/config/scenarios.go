package config

import (
	"encoding/json"
	"fmt"
	"os"

	"council/internal/domain"
)

// LoadScenarios reads a scenario deck from the given file. A deck must have
// at least one scenario with at least one option.
func LoadScenarios(path string) ([]domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario deck: %w", err)
	}

	var deck []domain.Scenario
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario deck: %w", err)
	}
	if len(deck) == 0 {
		return nil, fmt.Errorf("scenario deck %s is empty", path)
	}
	for _, sc := range deck {
		if sc.ID == "" || len(sc.Options) == 0 {
			return nil, fmt.Errorf("scenario %q is missing an id or options", sc.Title)
		}
	}
	return deck, nil
}
