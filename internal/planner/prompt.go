package planner

import (
	"fmt"
	"strings"

	"chronoplan/internal/chronotype"
	"chronoplan/internal/db/models"
)

// Timeframe is the planning horizon the user asked for.
type Timeframe string

const (
	Today    Timeframe = "today"
	Tomorrow Timeframe = "tomorrow"
	Week     Timeframe = "week"
)

// buildPrompt assembles the deterministic coaching prompt: the chronotype
// with base/status framing, the timeframe, one bullet per incomplete task,
// and the fixed per-chronotype scheduling rules.
func buildPrompt(timeframe Timeframe, incomplete []models.Task, result chronotype.Result, mode chronotype.Mode, language string) string {
	var bullets []string
	for _, t := range incomplete {
		recurring := "ONCE"
		if t.Recurring {
			recurring = "RECURRING"
		}
		bullets = append(bullets, fmt.Sprintf("- %s [%s, %s]", t.Description, t.Kind, recurring))
	}

	framing := fmt.Sprintf("Base chronotype: %s", result.Title)
	if mode == chronotype.ModeStatus {
		framing = fmt.Sprintf("Current status: %s", result.Title)
	}

	return fmt.Sprintf(`Act as a Chronobiology Coach.
User: %q (%s).
Goal: Plan for %s.

Tasks:
%s

Rules:
- Lion: Mornings.
- Bear: 10am-2pm.
- Wolf: Evening.
- Dolphin: Short bursts.
- RECURRING tasks: Suggest habit stacking.

Output: %s. HTML bullet points.
`, result.Name, framing, timeframe, strings.Join(bullets, "\n"), language)
}
