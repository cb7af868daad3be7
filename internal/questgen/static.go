package questgen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/climbyou/engine/internal/quest"
)

// StaticGenerator is a deterministic Generator that needs no provider.
// It honors the same contract as LLMGenerator (requested quest count,
// budget fit) with templated content, except that a budget too small to
// host the requested count at the minimum quest length yields fewer
// quests rather than a plan over budget. Used by offline CLI runs and
// as a test double at the generator seam.
type StaticGenerator struct {
	now func() time.Time
}

// NewStatic creates a StaticGenerator.
func NewStatic() *StaticGenerator {
	return &StaticGenerator{now: time.Now}
}

var staticPatterns = []string{"reading_notes", "micro_build", "recall_drill", "shadowing", "review_sprint"}

func (g *StaticGenerator) Generate(_ context.Context, input GenerateInput) (*quest.DailyPlan, error) {
	count := input.Config.QuestCount
	if count <= 0 {
		count = 1
	}
	// A tiny budget cannot host the requested count at the minimum
	// quest length; shrink the count instead of overrunning the budget.
	for count > 1 && input.Config.TotalMinutes/count < minQuestMinutes {
		count--
	}
	minutes := input.Config.TotalMinutes / count
	if minutes > maxQuestMinutes {
		minutes = maxQuestMinutes
	}

	avoid := make(map[string]bool, len(input.AvoidPatterns))
	for _, p := range input.AvoidPatterns {
		avoid[p] = true
	}

	quests := make([]quest.Quest, 0, count)
	total := 0
	patternIdx := 0
	for i := 0; i < count; i++ {
		for patternIdx < len(staticPatterns)-1 && avoid[staticPatterns[patternIdx%len(staticPatterns)]] {
			patternIdx++
		}
		pattern := staticPatterns[patternIdx%len(staticPatterns)]
		patternIdx++

		quests = append(quests, quest.Quest{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Practice block %d: %s", i+1, input.Profile.GoalText),
			Description: fmt.Sprintf("A %d-minute %s session working toward your goal.", minutes, pattern),
			Pattern:     pattern,
			Minutes:     minutes,
			Difficulty:  input.Config.AverageDifficulty,
			Instructions: []string{
				"set a timer for the allotted minutes",
				"work without interruptions",
				"note one thing you learned",
			},
			SuccessCriteria:   []string{"the timer ran out while you were still on task"},
			GoalContribution:  "steady practice toward " + input.Profile.GoalText,
			MotivationMessage: "small blocks add up",
			Tags:              []string{input.Profile.Category, pattern},
		})
		total += minutes
	}

	return &quest.DailyPlan{
		UserID:            input.Profile.UserID,
		Date:              quest.FormatDate(input.Date),
		Quests:            quests,
		TotalMinutes:      total,
		Rationale:         input.Rationale,
		AverageDifficulty: input.Config.AverageDifficulty,
		DailyMessage:      "offline plan: templated quests, same contract",
		GeneratedAt:       g.now(),
	}, nil
}
