package questgen

import "github.com/climbyou/engine/internal/llm"

// DailyQuestsSchema is the wire contract for quest generation. Field
// names match the mobile app's documented quest-generation schema.
var DailyQuestsSchema = &llm.Schema{
	Name:        "daily-quests",
	Description: "A personalized set of learning quests for one day",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quests": map[string]any{
				"type":        "array",
				"description": "The day's quests, in suggested order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short action-oriented quest title",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What to do and why it helps, 1-3 sentences",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "Pedagogical pattern tag, e.g. reading_notes, shadowing, micro_build",
						},
						"difficulty": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "Difficulty within the requested range",
						},
						"estimatedTimeMinutes": map[string]any{
							"type":        "integer",
							"minimum":     5,
							"maximum":     240,
							"description": "Estimated minutes to complete",
						},
						"instructions": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Concrete steps, 1-10 items",
						},
						"successCriteria": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "How the learner knows they are done, 1-5 items",
						},
						"goalContribution": map[string]any{
							"type":        "string",
							"description": "How this quest advances the long-term goal",
						},
						"motivationMessage": map[string]any{
							"type":        "string",
							"description": "One-line encouragement matching the learner's motivation style",
						},
					},
					"required": []any{
						"title", "description", "category", "difficulty",
						"estimatedTimeMinutes", "instructions", "successCriteria",
						"goalContribution", "motivationMessage",
					},
					"additionalProperties": false,
				},
			},
			"dailyMessage": map[string]any{
				"type":        "string",
				"description": "One-line framing for the whole day",
			},
			"totalEstimatedTime": map[string]any{
				"type":        "integer",
				"description": "Sum of the quests' estimated minutes",
			},
		},
		"required":             []any{"quests", "dailyMessage", "totalEstimatedTime"},
		"additionalProperties": false,
	},
}
