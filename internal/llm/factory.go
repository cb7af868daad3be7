package llm

import (
	"context"
	"fmt"
)

// NewProvider creates the configured Provider wrapped with the standard
// middleware chain: caller → retry → logging → base. A nil RequestLog
// skips the logging layer (pure-library consumers without a local store).
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown completion provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if log != nil {
		base = WithLogging(base, cfg.Provider, log)
	}
	return WithRetry(base, cfg.Retry), nil
}
