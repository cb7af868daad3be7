package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/engine"
	"github.com/climbyou/engine/internal/quest"
	"github.com/climbyou/engine/internal/questgen"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <quest-id>",
	Short: "Record a quest resolution (completed or skipped)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		date, _ := cmd.Flags().GetString("date")
		skipped, _ := cmd.Flags().GetBool("skipped")
		if date == "" {
			date = quest.FormatDate(time.Now())
		}

		rec := quest.HistoryRecord{
			UserID:    userID,
			QuestID:   args[0],
			Completed: !skipped,
			Date:      date,
		}

		// Fill quest details from the stored plan when it is findable.
		if plan, perr := st.Plans().GetForDate(cmd.Context(), userID, date); perr == nil {
			for _, q := range plan.Quests {
				if q.ID == args[0] {
					rec.Title = q.Title
					rec.Pattern = q.Pattern
					rec.Difficulty = q.Difficulty
					rec.PlannedMinutes = q.Minutes
				}
			}
		}

		if m, _ := cmd.Flags().GetInt("minutes"); m > 0 {
			rec.ActualMinutes = &m
		}
		if r, _ := cmd.Flags().GetInt("rating"); r > 0 {
			rec.Rating = &r
		}

		svc := engine.NewService(st.Profiles(), st.History(), st.Plans(), questgen.NewStatic(), nil)
		if err := svc.ResolveQuest(cmd.Context(), rec); err != nil {
			return err
		}

		verb := "completed"
		if skipped {
			verb = "skipped"
		}
		fmt.Printf("Recorded quest %s as %s.\n", args[0], verb)
		return nil
	},
}

func init() {
	resolveCmd.Flags().Bool("skipped", false, "Record as skipped instead of completed")
	resolveCmd.Flags().Int("minutes", 0, "Actual minutes spent")
	resolveCmd.Flags().Int("rating", 0, "Rating 1-5")
	resolveCmd.Flags().String("date", "", "Quest date (YYYY-MM-DD, default today)")
}
