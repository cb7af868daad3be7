package questgen

import (
	"context"
	"time"

	"github.com/climbyou/engine/internal/planner"
	"github.com/climbyou/engine/internal/quest"
)

// Generator produces a validated daily quest plan.
type Generator interface {
	// Generate builds the plan for the input's date. The returned plan
	// always has exactly the requested quest count and fits the time
	// budget, or the call fails with a generation-kind error.
	Generate(ctx context.Context, input GenerateInput) (*quest.DailyPlan, error)
}

// GenerateInput carries everything one generation cycle needs.
type GenerateInput struct {
	// Profile is the learner's stable configuration.
	Profile quest.Profile

	// Date is the plan's target calendar date.
	Date time.Time

	// Config is the planner's resolved quest configuration.
	Config planner.QuestConfig

	// AvoidPatterns lists pattern tags used recently; generation is
	// steered away from them for variety.
	AvoidPatterns []string

	// Rationale is the planner's adjustment reasons, carried onto the
	// resulting plan for the learner to see.
	Rationale []string
}
