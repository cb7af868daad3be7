// Package report synthesizes weekly progress reports from quest history
// and the detailed analysis. Derived data only: a report is recomputed
// per request and never edited in place.
package report

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/climbyou/engine/internal/quest"
)

const (
	// Trend thresholds: the completion-rate and learning-minutes deltas
	// a week must move to leave "stable".
	trendRateDelta    = 0.1
	trendMinutesDelta = 60

	// Confidence normalization denominators for the week sample and the
	// total history sample.
	weekSampleDenom  = 10
	totalSampleDenom = 50
)

// BuildWeeklyReport aggregates the week starting at weekStart, compares
// it to the week before, and derives threshold-driven narrative lists.
// Sparse data degrades to a low-confidence report, never an error.
func BuildWeeklyReport(history []quest.HistoryRecord, analysis quest.DetailedAnalysis, weekStart time.Time) quest.WeeklyReport {
	weekEnd := weekStart.AddDate(0, 0, 6)
	week := recordsBetween(history, weekStart, weekEnd)
	previous := recordsBetween(history, weekStart.AddDate(0, 0, -7), weekStart.AddDate(0, 0, -1))

	summary := Summarize(week)
	prevSummary := Summarize(previous)
	comparison := compare(summary, prevSummary)

	r := quest.WeeklyReport{
		WeekStart:              quest.FormatDate(weekStart),
		WeekEnd:                quest.FormatDate(weekEnd),
		Summary:                summary,
		ComparedToPreviousWeek: comparison,
		ConfidenceScore:        confidence(len(week), len(history)),
		GeneratedAt:            time.Now(),
	}

	r.Achievements = achievements(summary, comparison)
	r.Challenges = challenges(summary)
	r.Insights = insights(summary, comparison, analysis)
	r.Recommendations = recommendations(summary, analysis)
	r.NextWeekGoals = nextWeekGoals(summary)
	return r
}

// Summarize aggregates one week of records.
func Summarize(week []quest.HistoryRecord) quest.WeeklySummary {
	s := quest.WeeklySummary{TotalQuests: len(week)}

	successDates := make(map[string]bool)
	diffSum := 0.0

	for _, r := range week {
		diffSum += r.Difficulty

		if r.Completed {
			s.CompletedQuests++
			successDates[r.Date] = true
		}

		// Actual minutes where reported; planned minutes stand in for
		// completed quests that went unreported.
		switch {
		case r.ActualMinutes != nil:
			s.LearningMinutes += *r.ActualMinutes
		case r.Completed:
			s.LearningMinutes += r.PlannedMinutes
		}
	}

	if s.TotalQuests > 0 {
		s.CompletionRate = float64(s.CompletedQuests) / float64(s.TotalQuests)
		s.AverageDifficulty = diffSum / float64(s.TotalQuests)
	}
	s.StreakDays = len(successDates)
	s.Consistency = float64(s.StreakDays) / 7
	return s
}

func recordsBetween(history []quest.HistoryRecord, from, to time.Time) []quest.HistoryRecord {
	return lo.Filter(history, func(r quest.HistoryRecord, _ int) bool {
		d, err := quest.ParseDate(r.Date)
		if err != nil {
			return false
		}
		return !d.Before(from) && !d.After(to)
	})
}

func compare(current, previous quest.WeeklySummary) quest.WeekComparison {
	c := quest.WeekComparison{
		CompletionRateDelta: current.CompletionRate - previous.CompletionRate,
		MinutesDelta:        current.LearningMinutes - previous.LearningMinutes,
	}

	switch {
	case c.CompletionRateDelta > trendRateDelta || c.MinutesDelta > trendMinutesDelta:
		c.Trend = quest.TrendImproving
	case c.CompletionRateDelta < -trendRateDelta || c.MinutesDelta < -trendMinutesDelta:
		c.Trend = quest.TrendDeclining
	default:
		c.Trend = quest.TrendStable
	}
	return c
}

func confidence(weekSamples, totalSamples int) float64 {
	weekPart := min(1, float64(weekSamples)/weekSampleDenom)
	totalPart := min(1, float64(totalSamples)/totalSampleDenom)
	return (weekPart + totalPart) / 2
}

func achievements(s quest.WeeklySummary, c quest.WeekComparison) []string {
	var out []string
	if s.TotalQuests > 0 && s.CompletionRate >= 0.8 {
		out = append(out, fmt.Sprintf("completed %d of %d quests (%.0f%%)",
			s.CompletedQuests, s.TotalQuests, s.CompletionRate*100))
	}
	if s.StreakDays >= 5 {
		out = append(out, fmt.Sprintf("practiced on %d of 7 days", s.StreakDays))
	}
	if c.MinutesDelta > trendMinutesDelta {
		out = append(out, fmt.Sprintf("invested %d more minutes than last week", c.MinutesDelta))
	}
	return out
}

func challenges(s quest.WeeklySummary) []string {
	var out []string
	if s.TotalQuests > 0 && s.CompletionRate < 0.5 {
		out = append(out, fmt.Sprintf("only %.0f%% of quests were completed", s.CompletionRate*100))
	}
	if s.TotalQuests > 0 && s.StreakDays <= 2 {
		out = append(out, "practice was concentrated in very few days")
	}
	if s.TotalQuests == 0 {
		out = append(out, "no quests were attempted this week")
	}
	return out
}

func insights(s quest.WeeklySummary, c quest.WeekComparison, a quest.DetailedAnalysis) []string {
	var out []string
	out = append(out, fmt.Sprintf("week trend: %s (completion %+.0f%%, minutes %+d)",
		c.Trend, c.CompletionRateDelta*100, c.MinutesDelta))
	if a.SampleSize > 0 {
		out = append(out, fmt.Sprintf("your comfort zone sits at difficulty %.2f-%.2f",
			a.ComfortZone[0], a.ComfortZone[1]))
		out = append(out, fmt.Sprintf("%s is your strongest day, %s your weakest",
			a.BestWeekday, a.WorstWeekday))
	}
	if a.PlateauRisk > 0.6 {
		out = append(out, "progress may be plateauing; consider changing quest patterns")
	}
	return out
}

func recommendations(s quest.WeeklySummary, a quest.DetailedAnalysis) []string {
	var out []string
	if s.TotalQuests > 0 && s.CompletionRate < 0.5 {
		out = append(out,
			"schedule fewer quests per day and finish them",
			"pick quests at the low end of your difficulty range")
	}
	out = append(out, a.Recommendations...)
	if len(out) == 0 {
		out = append(out, "keep the current pace; it is working")
	}
	return out
}

func nextWeekGoals(s quest.WeeklySummary) []string {
	var goals []string
	switch {
	case s.TotalQuests == 0:
		goals = append(goals, "complete at least 3 quests")
	case s.CompletionRate < 0.8:
		target := min(1, s.CompletionRate+0.1)
		goals = append(goals, fmt.Sprintf("raise completion rate to %.0f%%", target*100))
	default:
		goals = append(goals, "hold completion above 80%")
	}
	if s.StreakDays < 5 {
		goals = append(goals, fmt.Sprintf("practice on at least %d days", min(7, s.StreakDays+2)))
	}
	goals = append(goals, "try one quest pattern you have not used recently")
	return goals
}
