package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/engine"
	"github.com/climbyou/engine/internal/quest"
	"github.com/climbyou/engine/internal/questgen"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the weekly progress report",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		weekStart := mostRecentMonday(time.Now())
		if w, _ := cmd.Flags().GetString("week"); w != "" {
			weekStart, err = quest.ParseDate(w)
			if err != nil {
				return fmt.Errorf("bad --week %q: want YYYY-MM-DD", w)
			}
		}
		userID, _ := cmd.Flags().GetString("user")

		svc := engine.NewService(st.Profiles(), st.History(), st.Plans(), questgen.NewStatic(), nil)
		r, err := svc.WeeklyReport(cmd.Context(), userID, weekStart)
		if err != nil {
			return err
		}

		printReport(r)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("week", "", "Week start date (YYYY-MM-DD, default most recent Monday)")
}

func mostRecentMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func printReport(r *quest.WeeklyReport) {
	s := r.Summary
	fmt.Printf("Week %s to %s (confidence %.2f)\n", r.WeekStart, r.WeekEnd, r.ConfidenceScore)
	fmt.Printf("  %d/%d quests completed (%.0f%%), %d learning minutes, %d active days\n",
		s.CompletedQuests, s.TotalQuests, s.CompletionRate*100, s.LearningMinutes, s.StreakDays)
	fmt.Printf("  vs previous week: %s (completion %+.0f%%, minutes %+d)\n\n",
		r.ComparedToPreviousWeek.Trend,
		r.ComparedToPreviousWeek.CompletionRateDelta*100,
		r.ComparedToPreviousWeek.MinutesDelta)

	printSection("Achievements", r.Achievements)
	printSection("Challenges", r.Challenges)
	printSection("Insights", r.Insights)
	printSection("Recommendations", r.Recommendations)
	printSection("Next week", r.NextWeekGoals)
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
	fmt.Println()
}
