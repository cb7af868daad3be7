package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show completion-provider configuration and recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
				fmt.Println("(provider discovered from standard API key variables)")
			} else {
				fmt.Printf("No provider configured: %v\n", err)
				return nil
			}
		}

		fmt.Printf("Provider: %s\n", cfg.Provider)
		switch cfg.Provider {
		case "openai":
			fmt.Printf("Model:    %s\n", cfg.OpenAI.Model)
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL: %s\n", cfg.OpenAI.BaseURL)
			}
		case "anthropic":
			fmt.Printf("Model:    %s\n", cfg.Anthropic.Model)
		case "gemini":
			fmt.Printf("Model:    %s\n", cfg.Gemini.Model)
		}

		n, _ := cmd.Flags().GetInt("log")
		if n <= 0 {
			return nil
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.RequestLog().Recent(cmd.Context(), n)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("\nNo logged requests.")
			return nil
		}

		fmt.Printf("\nLast %d requests:\n", len(records))
		for _, r := range records {
			status := "ok"
			if !r.Success {
				status = "failed: " + r.ErrorMessage
			}
			fmt.Printf("  %s  %-14s %-12s %5dms  in=%d out=%d  %s\n",
				r.CreatedAt, r.Purpose, r.Model, r.LatencyMs,
				r.InputTokens, r.OutputTokens, status)
		}
		return nil
	},
}

func init() {
	llmCmd.Flags().Int("log", 0, "Also print the last N logged requests")
}
