package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climbyou/engine/internal/quest"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set the learner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		p, err := st.Profiles().Get(cmd.Context(), userID)
		if err != nil {
			return err
		}

		fmt.Printf("Goal:                 %s (%s)\n", p.GoalText, p.Category)
		fmt.Printf("Daily budget:         %d min (sessions of %d min)\n",
			p.TimeBudgetMinPerDay, p.PreferredSessionLengthMin)
		fmt.Printf("Difficulty tolerance: %.2f\n", p.DifficultyTolerance)
		fmt.Printf("Motivation style:     %s\n", p.MotivationStyle)
		if len(p.PeakHours) > 0 {
			fmt.Printf("Peak hours:           %s\n", formatHours(p.PeakHours))
		}
		for _, c := range p.HardConstraints {
			fmt.Printf("Hard constraint:      %s\n", c)
		}
		for _, c := range p.SoftConstraints {
			fmt.Printf("Soft constraint:      %s\n", c)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")

		// Start from the stored profile so partial updates work.
		p, err := st.Profiles().Get(cmd.Context(), userID)
		if err != nil {
			p = &quest.Profile{
				UserID:                    userID,
				TimeBudgetMinPerDay:       60,
				PreferredSessionLengthMin: 20,
				DifficultyTolerance:       0.5,
				MotivationStyle:           "achievement",
			}
		}

		if v, _ := cmd.Flags().GetString("goal"); v != "" {
			p.GoalText = v
		}
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			p.Category = v
		}
		if v, _ := cmd.Flags().GetInt("budget"); v > 0 {
			p.TimeBudgetMinPerDay = v
		}
		if v, _ := cmd.Flags().GetInt("session"); v > 0 {
			p.PreferredSessionLengthMin = v
		}
		if cmd.Flags().Changed("tolerance") {
			v, _ := cmd.Flags().GetFloat64("tolerance")
			p.DifficultyTolerance = quest.Clamp(v, 0, 1)
		}
		if v, _ := cmd.Flags().GetString("style"); v != "" {
			p.MotivationStyle = v
		}

		if err := st.Profiles().Save(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Profile saved for user %s.\n", userID)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("goal", "", "Long-term goal text")
	profileSetCmd.Flags().String("category", "", "Goal category")
	profileSetCmd.Flags().Int("budget", 0, "Daily time budget in minutes")
	profileSetCmd.Flags().Int("session", 0, "Preferred session length in minutes")
	profileSetCmd.Flags().Float64("tolerance", 0.5, "Difficulty tolerance 0-1")
	profileSetCmd.Flags().String("style", "", "Motivation style")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
