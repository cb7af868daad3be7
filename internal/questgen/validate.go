package questgen

import "fmt"

const (
	minQuestMinutes = 5
	maxQuestMinutes = 240

	minInstructions = 1
	maxInstructions = 10

	minSuccessCriteria = 1
	maxSuccessCriteria = 5
)

// ValidationError describes why a generated plan was rejected. Its
// message is fed back to the model verbatim in the refinement round.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validateOutput applies the business rules the JSON schema alone cannot
// express: exact quest count, budget fit, and per-quest bounds.
func validateOutput(out *dailyQuestsOutput, input GenerateInput) *ValidationError {
	if len(out.Quests) != input.Config.QuestCount {
		return &ValidationError{Message: fmt.Sprintf(
			"expected exactly %d quests, got %d", input.Config.QuestCount, len(out.Quests))}
	}

	total := 0
	for i, q := range out.Quests {
		if q.Title == "" {
			return &ValidationError{Message: fmt.Sprintf("quest %d has an empty title", i+1)}
		}
		if q.EstimatedTimeMinutes < minQuestMinutes || q.EstimatedTimeMinutes > maxQuestMinutes {
			return &ValidationError{Message: fmt.Sprintf(
				"quest %q estimates %d minutes, must be between %d and %d",
				q.Title, q.EstimatedTimeMinutes, minQuestMinutes, maxQuestMinutes)}
		}
		if n := len(q.Instructions); n < minInstructions || n > maxInstructions {
			return &ValidationError{Message: fmt.Sprintf(
				"quest %q has %d instructions, must have between %d and %d",
				q.Title, n, minInstructions, maxInstructions)}
		}
		if n := len(q.SuccessCriteria); n < minSuccessCriteria || n > maxSuccessCriteria {
			return &ValidationError{Message: fmt.Sprintf(
				"quest %q has %d success criteria, must have between %d and %d",
				q.Title, n, minSuccessCriteria, maxSuccessCriteria)}
		}
		total += q.EstimatedTimeMinutes
	}

	if total > input.Config.TotalMinutes {
		return &ValidationError{Message: fmt.Sprintf(
			"quests sum to %d minutes, budget is %d", total, input.Config.TotalMinutes)}
	}

	return nil
}
