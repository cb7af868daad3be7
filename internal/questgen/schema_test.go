package questgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The schema and validateOutput enforce the same contract from two
// sides; these tests keep their bounds from drifting apart.

func TestDailyQuestsSchema_Shape(t *testing.T) {
	def := DailyQuestsSchema.Definition

	require.Equal(t, "object", def["type"])
	require.ElementsMatch(t, []any{"quests", "dailyMessage", "totalEstimatedTime"}, def["required"])

	props, ok := def["properties"].(map[string]any)
	require.True(t, ok, "properties must be a map")

	quests, ok := props["quests"].(map[string]any)
	require.True(t, ok)
	items, ok := quests["items"].(map[string]any)
	require.True(t, ok)

	questProps, ok := items["properties"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{
		"title", "description", "category", "difficulty", "estimatedTimeMinutes",
		"instructions", "successCriteria", "goalContribution", "motivationMessage",
	} {
		require.Contains(t, questProps, field)
	}
	require.Equal(t, false, items["additionalProperties"])
}

func TestDailyQuestsSchema_BoundsMatchValidator(t *testing.T) {
	def := DailyQuestsSchema.Definition
	props := def["properties"].(map[string]any)
	items := props["quests"].(map[string]any)["items"].(map[string]any)
	questProps := items["properties"].(map[string]any)

	minutes := questProps["estimatedTimeMinutes"].(map[string]any)
	require.EqualValues(t, minQuestMinutes, minutes["minimum"])
	require.EqualValues(t, maxQuestMinutes, minutes["maximum"])

	difficulty := questProps["difficulty"].(map[string]any)
	require.EqualValues(t, 0, difficulty["minimum"])
	require.EqualValues(t, 1, difficulty["maximum"])
}
