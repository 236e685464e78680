package grok

import (
	"fmt"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/ports"
)

// FallbackSuggestions returns the canned daily habit list used whenever
// the AI path is unavailable. The output is deterministic for a given
// goal title so repeated generation stays stable.
func FallbackSuggestions(goalTitle string) []ports.Suggestion {
	return []ports.Suggestion{
		{
			Description: fmt.Sprintf("Work on %s for 30 minutes", goalTitle),
			Type:        entities.TaskTypePositive,
			Points:      25,
		},
		{
			Description: fmt.Sprintf("Research strategies for %s", goalTitle),
			Type:        entities.TaskTypePositive,
			Points:      15,
		},
		{
			Description: fmt.Sprintf("Plan next steps for %s", goalTitle),
			Type:        entities.TaskTypePositive,
			Points:      20,
		},
		{
			Description: fmt.Sprintf("Procrastinate on %s", goalTitle),
			Type:        entities.TaskTypeNegative,
			Points:      -15,
		},
		{
			Description: fmt.Sprintf("Skip planned work on %s", goalTitle),
			Type:        entities.TaskTypeNegative,
			Points:      -20,
		},
	}
}
