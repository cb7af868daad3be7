// Package questgen builds daily quest plans through the completion
// provider. The generator owns the contract-compliance loop: it asks,
// validates the answer against the business rules, and refines the
// prompt on failure, up to a fixed attempt budget.
package questgen

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/climbyou/engine/internal/llm"
	"github.com/climbyou/engine/internal/quest"
)

// Config controls the LLMGenerator.
type Config struct {
	// MaxAttempts is the total attempt budget, refinement rounds
	// included.
	MaxAttempts int

	// MaxTokens is the token budget for one response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0). Quest content
	// benefits from some variety.
	Temperature float64
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// LLMGenerator implements Generator against an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	now      func() time.Time
}

// New creates an LLMGenerator.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &LLMGenerator{provider: provider, config: cfg, now: time.Now}
}

// dailyQuestsOutput is the raw model response before normalization.
type dailyQuestsOutput struct {
	Quests             []questOutput `json:"quests"`
	DailyMessage       string        `json:"dailyMessage"`
	TotalEstimatedTime int           `json:"totalEstimatedTime"`
}

type questOutput struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Difficulty           float64  `json:"difficulty"`
	EstimatedTimeMinutes int      `json:"estimatedTimeMinutes"`
	Instructions         []string `json:"instructions"`
	SuccessCriteria      []string `json:"successCriteria"`
	GoalContribution     string   `json:"goalContribution"`
	MotivationMessage    string   `json:"motivationMessage"`
}

// Generate runs the bounded attempt loop: request, parse, validate,
// refine. Transport errors consume an attempt without a refinement
// message; validation failures append the model's own output plus a
// correction before the next try. Exhaustion surfaces a
// generation-kind error carrying the last failure.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*quest.DailyPlan, error) {
	ctx = llm.WithPurpose(ctx, "quest-gen")

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildUserMessage(input)},
	}

	var lastErr error
	lastFailure := ""

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		req := llm.Request{
			System:      systemPrompt,
			Messages:    messages,
			Schema:      DailyQuestsSchema,
			MaxTokens:   g.config.MaxTokens,
			Temperature: g.config.Temperature,
		}

		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = err
			lastFailure = err.Error()

			// A schema-invalid response still gives us raw text to
			// steer the next round with.
			var invResp *llm.ErrInvalidResponse
			if errors.As(err, &invResp) && len(invResp.Content) > 0 {
				messages = appendRefinement(messages, string(invResp.Content),
					refinementMessage(attempt, lastFailure, input))
			}
			continue
		}

		var out dailyQuestsOutput
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			lastErr = err
			lastFailure = "response was not valid quest JSON: " + err.Error()
			messages = appendRefinement(messages, string(resp.Content),
				refinementMessage(attempt, lastFailure, input))
			continue
		}

		if verr := validateOutput(&out, input); verr != nil {
			lastErr = verr
			lastFailure = verr.Message
			messages = appendRefinement(messages, string(resp.Content),
				refinementMessage(attempt, lastFailure, input))
			continue
		}

		return g.buildPlan(&out, input), nil
	}

	return nil, quest.NewError(quest.KindGeneration, lastErr,
		"quest generation failed after %d attempts", g.config.MaxAttempts).
		WithDetail("lastFailure", lastFailure)
}

// appendRefinement extends the conversation with the rejected output and
// the correction instruction.
func appendRefinement(messages []llm.Message, rawOutput, refinement string) []llm.Message {
	return append(messages,
		llm.Message{Role: llm.RoleAssistant, Content: rawOutput},
		llm.Message{Role: llm.RoleUser, Content: refinement},
	)
}

// buildPlan normalizes validated output into the immutable DailyPlan.
func (g *LLMGenerator) buildPlan(out *dailyQuestsOutput, input GenerateInput) *quest.DailyPlan {
	quests := make([]quest.Quest, len(out.Quests))
	total := 0
	diffSum := 0.0

	for i, q := range out.Quests {
		quests[i] = quest.Quest{
			ID:                uuid.NewString(),
			Title:             q.Title,
			Description:       q.Description,
			Pattern:           q.Category,
			Minutes:           q.EstimatedTimeMinutes,
			Difficulty:        quest.Clamp(q.Difficulty, 0, 1),
			Instructions:      q.Instructions,
			SuccessCriteria:   q.SuccessCriteria,
			GoalContribution:  q.GoalContribution,
			MotivationMessage: q.MotivationMessage,
			Tags:              []string{input.Profile.Category, q.Category},
		}
		total += q.EstimatedTimeMinutes
		diffSum += quests[i].Difficulty
	}

	avg := 0.0
	if len(quests) > 0 {
		avg = diffSum / float64(len(quests))
	}

	return &quest.DailyPlan{
		UserID:            input.Profile.UserID,
		Date:              quest.FormatDate(input.Date),
		Quests:            quests,
		TotalMinutes:      total,
		Rationale:         input.Rationale,
		AverageDifficulty: avg,
		DailyMessage:      out.DailyMessage,
		GeneratedAt:       g.now(),
	}
}
