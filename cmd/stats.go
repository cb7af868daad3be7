package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/engine"
	"github.com/climbyou/engine/internal/questgen"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the current learning pattern and analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		svc := engine.NewService(st.Profiles(), st.History(), st.Plans(), questgen.NewStatic(), nil)

		pattern, analysis, err := svc.Stats(cmd.Context(), userID)
		if err != nil {
			return err
		}

		fmt.Printf("Learning pattern (as of %s)\n", pattern.AnalyzedAt.Format("2006-01-02"))
		fmt.Printf("  completion rate:      %.0f%%\n", pattern.AverageCompletionRate*100)
		fmt.Printf("  preferred difficulty: %.2f\n", pattern.PreferredDifficulty)
		fmt.Printf("  best time slots:      %s\n", formatHours(pattern.BestTimeSlots))
		fmt.Printf("  improvement areas:    %v\n", pattern.ImprovementAreas)

		fmt.Println("\nWeekday completion rates:")
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			fmt.Printf("  %-10s %.0f%%\n", wd, pattern.WeeklyTrends[wd]*100)
		}

		fmt.Printf("\nDetailed analysis (%d samples, confidence %.2f)\n",
			analysis.SampleSize, analysis.ConfidenceScore)
		fmt.Printf("  streak: current %d, longest %d, average %.1f\n",
			analysis.CurrentStreak, analysis.LongestStreak, analysis.AverageStreak)
		fmt.Printf("  time efficiency:  %.2f\n", analysis.TimeEfficiency)
		fmt.Printf("  comfort zone:     %.2f - %.2f\n", analysis.ComfortZone[0], analysis.ComfortZone[1])
		fmt.Printf("  best/worst day:   %s / %s\n", analysis.BestWeekday, analysis.WorstWeekday)
		fmt.Printf("  plateau risk:     %.2f\n", analysis.PlateauRisk)
		for _, rf := range analysis.RiskFactors {
			fmt.Printf("  risk: %s\n", rf)
		}
		for _, rec := range analysis.Recommendations {
			fmt.Printf("  tip:  %s\n", rec)
		}
		return nil
	},
}

func formatHours(hours []int) string {
	out := ""
	for i, h := range hours {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%02d:00", h)
	}
	return out
}
