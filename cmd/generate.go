package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/engine"
	"github.com/climbyou/engine/internal/llm"
	"github.com/climbyou/engine/internal/quest"
	"github.com/climbyou/engine/internal/questgen"
	"github.com/climbyou/engine/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the daily quest plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		date := time.Now()
		if d, _ := cmd.Flags().GetString("date"); d != "" {
			date, err = quest.ParseDate(d)
			if err != nil {
				return fmt.Errorf("bad --date %q: want YYYY-MM-DD", d)
			}
		}
		force, _ := cmd.Flags().GetBool("force")
		offline, _ := cmd.Flags().GetBool("offline")
		userID, _ := cmd.Flags().GetString("user")

		generator, err := buildGenerator(cmd, st, offline)
		if err != nil {
			return err
		}

		svc := engine.NewService(st.Profiles(), st.History(), st.Plans(), generator, nil)
		plan, err := svc.GeneratePlan(cmd.Context(), userID, date, force)
		if err != nil {
			return err
		}

		printPlan(plan)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("date", "", "Target date (YYYY-MM-DD, default today)")
	generateCmd.Flags().Bool("force", false, "Regenerate even if a plan exists for the date")
	generateCmd.Flags().Bool("offline", false, "Use the deterministic offline generator (no API calls)")
}

// buildGenerator picks the quest generator: offline templates, or the
// configured completion provider wrapped in the standard middleware.
func buildGenerator(cmd *cobra.Command, st *store.Store, offline bool) (questgen.Generator, error) {
	if offline {
		return questgen.NewStatic(), nil
	}

	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		// Fall back to probing the standard key variables.
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no completion provider configured; set CLIMBYOU_LLM_PROVIDER or use --offline")
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg, st.RequestLog())
	if err != nil {
		return nil, err
	}
	return questgen.New(provider, questgen.DefaultConfig()), nil
}

func printPlan(plan *quest.DailyPlan) {
	fmt.Printf("Plan for %s — %d quests, %d minutes (avg difficulty %.2f)\n",
		plan.Date, len(plan.Quests), plan.TotalMinutes, plan.AverageDifficulty)
	if plan.DailyMessage != "" {
		fmt.Printf("%s\n", plan.DailyMessage)
	}
	for _, reason := range plan.Rationale {
		fmt.Printf("  adjustment: %s\n", reason)
	}
	fmt.Println()
	for i, q := range plan.Quests {
		fmt.Printf("%d. %s  [%s, %d min, difficulty %.2f]\n", i+1, q.Title, q.Pattern, q.Minutes, q.Difficulty)
		fmt.Printf("   %s\n", q.Description)
		fmt.Printf("   id: %s\n", q.ID)
	}
}
