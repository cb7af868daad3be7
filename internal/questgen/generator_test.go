package questgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/climbyou/engine/internal/llm"
	"github.com/climbyou/engine/internal/planner"
	"github.com/climbyou/engine/internal/quest"
)

func testInput() GenerateInput {
	return GenerateInput{
		Profile: quest.Profile{
			UserID:                    "u1",
			GoalText:                  "hold a 10-minute conversation in Spanish",
			Category:                  "language",
			TimeBudgetMinPerDay:       60,
			PreferredSessionLengthMin: 20,
			DifficultyTolerance:       0.6,
			MotivationStyle:           "achievement",
		},
		Date: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		Config: planner.QuestConfig{
			TotalMinutes:      60,
			QuestCount:        2,
			AverageDifficulty: 0.6,
			DifficultyRange:   [2]float64{0.4, 0.8},
		},
		AvoidPatterns: []string{"shadowing"},
		Rationale:     []string{"completion rate 40% is low, easing difficulty"},
	}
}

func questJSON(title string, minutes int) string {
	return fmt.Sprintf(`{
		"title": %q,
		"description": "A practice session.",
		"category": "reading_notes",
		"difficulty": 0.5,
		"estimatedTimeMinutes": %d,
		"instructions": ["read one article", "note five new words"],
		"successCriteria": ["five words written down"],
		"goalContribution": "builds vocabulary",
		"motivationMessage": "keep climbing"
	}`, title, minutes)
}

func planJSON(quests ...string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"quests": [%s],
		"dailyMessage": "two focused blocks today",
		"totalEstimatedTime": 50
	}`, strings.Join(quests, ",")))
}

func validPlanJSON() json.RawMessage {
	return planJSON(questJSON("Read an article", 25), questJSON("Vocabulary drill", 25))
}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validPlanJSON()})
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Quests) != 2 {
		t.Fatalf("expected 2 quests, got %d", len(plan.Quests))
	}
	if plan.TotalMinutes != 50 {
		t.Errorf("expected 50 total minutes, got %d", plan.TotalMinutes)
	}
	if plan.Date != "2026-03-20" {
		t.Errorf("unexpected plan date %q", plan.Date)
	}
	if plan.UserID != "u1" {
		t.Errorf("unexpected user %q", plan.UserID)
	}
	if plan.Quests[0].ID == "" || plan.Quests[0].ID == plan.Quests[1].ID {
		t.Error("quests need distinct non-empty IDs")
	}
	if plan.Quests[0].Pattern != "reading_notes" {
		t.Errorf("unexpected pattern %q", plan.Quests[0].Pattern)
	}
	if plan.DailyMessage != "two focused blocks today" {
		t.Errorf("unexpected daily message %q", plan.DailyMessage)
	}
	if len(plan.Rationale) != 1 {
		t.Errorf("expected rationale carried onto the plan, got %v", plan.Rationale)
	}
}

func TestGenerate_WrongCountRefined(t *testing.T) {
	// First response has one quest instead of two; the refined retry
	// succeeds.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(questJSON("Only one", 25))},
		llm.MockResponse{Content: validPlanJSON()},
	)
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Quests) != 2 {
		t.Fatalf("expected 2 quests after refinement, got %d", len(plan.Quests))
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", mock.CallCount())
	}

	// The second call carries the rejected output plus a correction.
	second := mock.Calls[1].Messages
	if len(second) != 3 {
		t.Fatalf("expected 3 messages on retry, got %d", len(second))
	}
	if second[1].Role != llm.RoleAssistant {
		t.Errorf("expected rejected output as assistant turn, got %q", second[1].Role)
	}
	refinement := second[2].Content
	if !strings.Contains(refinement, "Attempt 1 was rejected") {
		t.Errorf("refinement should name the attempt: %q", refinement)
	}
	if !strings.Contains(refinement, "exactly 2 quests") {
		t.Errorf("refinement should restate the quest count: %q", refinement)
	}
}

func TestGenerate_OverBudgetRejected(t *testing.T) {
	over := planJSON(questJSON("Long block", 40), questJSON("Another long block", 40))
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: over},
		llm.MockResponse{Content: validPlanJSON()},
	)
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalMinutes > testInput().Config.TotalMinutes {
		t.Errorf("plan exceeds budget: %d minutes", plan.TotalMinutes)
	}

	refinement := mock.Calls[1].Messages[2].Content
	if !strings.Contains(refinement, "budget") {
		t.Errorf("refinement should name the budget failure: %q", refinement)
	}
}

func TestGenerate_ExhaustsAttempts(t *testing.T) {
	bad := planJSON(questJSON("Only one", 25))
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bad},
		llm.MockResponse{Content: bad},
		llm.MockResponse{Content: bad},
	)
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testInput())
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if quest.KindOf(err) != quest.KindGeneration {
		t.Errorf("expected generation kind, got %q", quest.KindOf(err))
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.CallCount())
	}

	var qe *quest.Error
	if !errors.As(err, &qe) {
		t.Fatalf("expected *quest.Error, got %T", err)
	}
	if qe.Details["lastFailure"] == "" {
		t.Error("expected the last failure in the error details")
	}
}

func TestGenerate_UnparseableJSONRefined(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"quests": [`)},
		llm.MockResponse{Content: validPlanJSON()},
	)
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Quests) != 2 {
		t.Fatalf("expected recovery after parse failure, got %d quests", len(plan.Quests))
	}
}

func TestGenerate_TransportErrorConsumesAttempt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: validPlanJSON()},
	)
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Quests) != 2 {
		t.Fatalf("expected 2 quests, got %d", len(plan.Quests))
	}
	// No refinement message for a transport error: the retry resends the
	// original conversation.
	if len(mock.Calls[1].Messages) != 1 {
		t.Errorf("expected unchanged conversation, got %d messages", len(mock.Calls[1].Messages))
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: context.Canceled})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testInput())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled passthrough, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("cancellation must not be retried, got %d calls", mock.CallCount())
	}
}

func TestGenerate_ClampsDifficulty(t *testing.T) {
	q := strings.Replace(questJSON("Too hard", 25), `"difficulty": 0.5`, `"difficulty": 1.7`, 1)
	mock := llm.NewMockProvider(llm.MockResponse{Content: planJSON(q, questJSON("Fine", 25))})
	gen := New(mock, DefaultConfig())

	plan, err := gen.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Quests[0].Difficulty != 1.0 {
		t.Errorf("expected difficulty clamped to 1.0, got %f", plan.Quests[0].Difficulty)
	}
}

func TestStaticGenerator_Contract(t *testing.T) {
	gen := NewStatic()
	input := testInput()

	plan, err := gen.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Quests) != input.Config.QuestCount {
		t.Fatalf("expected %d quests, got %d", input.Config.QuestCount, len(plan.Quests))
	}
	if plan.TotalMinutes > input.Config.TotalMinutes {
		t.Errorf("plan exceeds budget: %d > %d", plan.TotalMinutes, input.Config.TotalMinutes)
	}
	for _, q := range plan.Quests {
		if q.Pattern == "shadowing" {
			t.Errorf("quest used an avoided pattern: %q", q.Pattern)
		}
		if q.Minutes < minQuestMinutes {
			t.Errorf("quest under the minimum minutes: %d", q.Minutes)
		}
	}
}

func TestStaticGenerator_TinyBudgetShrinksCount(t *testing.T) {
	input := testInput()
	input.Config.TotalMinutes = 9
	input.Config.QuestCount = 2

	plan, err := NewStatic().Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalMinutes > input.Config.TotalMinutes {
		t.Fatalf("plan exceeds budget: %d > %d", plan.TotalMinutes, input.Config.TotalMinutes)
	}
	if len(plan.Quests) != 1 {
		t.Fatalf("expected the count shrunk to 1, got %d", len(plan.Quests))
	}
	if plan.Quests[0].Minutes != 9 {
		t.Errorf("expected the single quest to take the whole budget, got %d", plan.Quests[0].Minutes)
	}
}

func TestValidateOutput(t *testing.T) {
	input := testInput()

	base := func() *dailyQuestsOutput {
		return &dailyQuestsOutput{
			Quests: []questOutput{
				{Title: "A", EstimatedTimeMinutes: 25, Instructions: []string{"x"}, SuccessCriteria: []string{"y"}},
				{Title: "B", EstimatedTimeMinutes: 25, Instructions: []string{"x"}, SuccessCriteria: []string{"y"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*dailyQuestsOutput)
		wantErr string
	}{
		{"valid", func(*dailyQuestsOutput) {}, ""},
		{"wrong count", func(o *dailyQuestsOutput) { o.Quests = o.Quests[:1] }, "expected exactly 2 quests"},
		{"empty title", func(o *dailyQuestsOutput) { o.Quests[0].Title = "" }, "empty title"},
		{"too short", func(o *dailyQuestsOutput) { o.Quests[0].EstimatedTimeMinutes = 2 }, "minutes"},
		{"too long", func(o *dailyQuestsOutput) { o.Quests[0].EstimatedTimeMinutes = 300 }, "minutes"},
		{"no instructions", func(o *dailyQuestsOutput) { o.Quests[0].Instructions = nil }, "instructions"},
		{"no criteria", func(o *dailyQuestsOutput) { o.Quests[0].SuccessCriteria = nil }, "success criteria"},
		{"over budget", func(o *dailyQuestsOutput) {
			o.Quests[0].EstimatedTimeMinutes = 40
			o.Quests[1].EstimatedTimeMinutes = 40
		}, "budget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := base()
			tt.mutate(out)
			err := validateOutput(out, input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Message, tt.wantErr) {
				t.Errorf("expected message containing %q, got %q", tt.wantErr, err.Message)
			}
		})
	}
}
