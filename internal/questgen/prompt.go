package questgen

import (
	"fmt"
	"strings"

	"github.com/climbyou/engine/internal/quest"
)

const systemPrompt = `You are a learning coach designing one day of practice quests for an adult learner.

Rules:
- Generate exactly the requested number of quests, no more, no fewer.
- The quests' estimated minutes must sum to at most the stated time budget.
- Keep every quest's difficulty inside the requested range.
- Each quest needs concrete instructions (1-10 steps) and verifiable success criteria (1-5 items).
- Every quest must advance the learner's stated goal; say how in goalContribution.
- Vary pedagogical patterns; do not use any pattern from the "avoid" list.
- Respect the hard constraints without exception; lean toward the soft constraints.
- Match motivationMessage and dailyMessage to the learner's motivation style. Encouraging, never saccharine.`

// buildUserMessage renders the generation request for the model.
func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: %s\n", input.Profile.GoalText)
	fmt.Fprintf(&b, "Category: %s\n", input.Profile.Category)
	fmt.Fprintf(&b, "Date: %s (%s)\n", quest.FormatDate(input.Date), input.Date.Weekday())
	fmt.Fprintf(&b, "Quest count: %d\n", input.Config.QuestCount)
	fmt.Fprintf(&b, "Time budget: %d minutes total\n", input.Config.TotalMinutes)
	fmt.Fprintf(&b, "Difficulty range: %.2f - %.2f\n", input.Config.DifficultyRange[0], input.Config.DifficultyRange[1])
	fmt.Fprintf(&b, "Motivation style: %s\n", input.Profile.MotivationStyle)

	if len(input.Profile.PeakHours) > 0 {
		fmt.Fprintf(&b, "Peak hours: %s\n", joinInts(input.Profile.PeakHours))
	}

	b.WriteString("\nPatterns to avoid (used recently):\n")
	b.WriteString(bulletList(input.AvoidPatterns))

	b.WriteString("\nHard constraints:\n")
	b.WriteString(bulletList(input.Profile.HardConstraints))

	b.WriteString("\nSoft constraints:\n")
	b.WriteString(bulletList(input.Profile.SoftConstraints))

	return b.String()
}

// refinementMessage steers a retry after a validation failure. Naming
// the attempt and the exact failure is what pulls a non-deterministic
// generator back into contract.
func refinementMessage(attempt int, failure string, cfg GenerateInput) string {
	return fmt.Sprintf(
		"Attempt %d was rejected: %s.\nRegenerate the complete JSON response and fix this. Keep exactly %d quests and at most %d total minutes.",
		attempt, failure, cfg.Config.QuestCount, cfg.Config.TotalMinutes)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "None\n"
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	return b.String()
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d:00", v)
	}
	return strings.Join(parts, ", ")
}
