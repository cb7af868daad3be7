// Package planner turns a profile and a learning pattern into the
// quest configuration for one day: how many quests, how hard, and how
// much total time. Pure functions; the caller supplies all state.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/climbyou/engine/internal/quest"
)

const (
	// MinQuests and MaxQuests bound the daily quest count.
	MinQuests = 1
	MaxQuests = 5

	// MinDifficulty and MaxDifficulty bound every difficulty the
	// planner emits.
	MinDifficulty = 0.1
	MaxDifficulty = 0.9

	// difficultySpread widens the average difficulty into a range.
	difficultySpread = 0.2

	// RecentPatternDays is the default lookback for pattern avoidance.
	RecentPatternDays = 7

	// trendSampleSize is how many trailing records feed each side of
	// the trend comparison.
	trendSampleSize = 3
)

// Adjustments captures the contextual modifiers applied to a day's plan
// and the human-readable reasons behind them. Reasons become the plan's
// rationale.
type Adjustments struct {
	Reasons            []string
	DifficultyModifier float64
	TimeModifier       float64
}

// QuestConfig is the resolved generation configuration for one day.
type QuestConfig struct {
	TotalMinutes      int
	QuestCount        int
	AverageDifficulty float64
	DifficultyRange   [2]float64
}

// DetermineAdjustments derives the day's modifiers from the learning
// pattern and recent performance. With no history the pattern sits at
// its neutral priors and no adjustment fires.
func DetermineAdjustments(targetDate time.Time, pattern quest.LearningPattern, recent []quest.HistoryRecord) Adjustments {
	adj := Adjustments{TimeModifier: 1.0}

	switch {
	case pattern.AverageCompletionRate < 0.5:
		adj.DifficultyModifier -= 0.2
		adj.Reasons = append(adj.Reasons,
			fmt.Sprintf("completion rate %.0f%% is low, easing difficulty", pattern.AverageCompletionRate*100))
	case pattern.AverageCompletionRate > 0.8:
		adj.DifficultyModifier += 0.1
		adj.Reasons = append(adj.Reasons,
			fmt.Sprintf("completion rate %.0f%% is strong, raising difficulty", pattern.AverageCompletionRate*100))
	}

	weekday := targetDate.Weekday()
	if rate, ok := pattern.WeeklyTrends[weekday]; ok && rate < 0.4 {
		adj.TimeModifier *= 0.8
		adj.Reasons = append(adj.Reasons,
			fmt.Sprintf("%ss have been hard for you, lightening the load", weekday))
	}

	switch PerformanceTrend(recent) {
	case quest.TrendDeclining:
		adj.DifficultyModifier -= 0.15
		adj.Reasons = append(adj.Reasons, "recent results are declining, easing difficulty further")
	case quest.TrendImproving:
		adj.DifficultyModifier += 0.1
		adj.Reasons = append(adj.Reasons, "recent results are improving, nudging difficulty up")
	}

	return adj
}

// PerformanceTrend compares successes in the most recent trendSampleSize
// records against the preceding trendSampleSize. Fewer than six records
// is not enough signal and reads as stable.
func PerformanceTrend(recent []quest.HistoryRecord) string {
	if len(recent) < 2*trendSampleSize {
		return quest.TrendStable
	}

	newest := recent[len(recent)-trendSampleSize:]
	previous := recent[len(recent)-2*trendSampleSize : len(recent)-trendSampleSize]

	newScore := countCompleted(newest)
	prevScore := countCompleted(previous)

	switch {
	case newScore > prevScore:
		return quest.TrendImproving
	case newScore < prevScore:
		return quest.TrendDeclining
	default:
		return quest.TrendStable
	}
}

func countCompleted(records []quest.HistoryRecord) int {
	n := 0
	for _, r := range records {
		if r.Completed {
			n++
		}
	}
	return n
}

// OptimalConfig computes the day's quest configuration from the profile
// and the contextual adjustments.
func OptimalConfig(profile quest.Profile, adj Adjustments) QuestConfig {
	totalMinutes := int(math.Round(float64(profile.TimeBudgetMinPerDay) * adj.TimeModifier))

	sessionLen := profile.PreferredSessionLengthMin
	if sessionLen <= 0 {
		sessionLen = 20
	}
	count := int(math.Round(float64(totalMinutes) / float64(sessionLen)))
	if count < MinQuests {
		count = MinQuests
	}
	if count > MaxQuests {
		count = MaxQuests
	}

	avg := quest.Clamp(profile.DifficultyTolerance+adj.DifficultyModifier, MinDifficulty, MaxDifficulty)

	return QuestConfig{
		TotalMinutes:      totalMinutes,
		QuestCount:        count,
		AverageDifficulty: avg,
		DifficultyRange: [2]float64{
			quest.Clamp(avg-difficultySpread, MinDifficulty, MaxDifficulty),
			quest.Clamp(avg+difficultySpread, MinDifficulty, MaxDifficulty),
		},
	}
}

// RecentPatterns returns the distinct pattern tags used in the trailing
// days, sorted, so generation can bias away from repetition.
func RecentPatterns(history []quest.HistoryRecord, asOf time.Time, days int) []string {
	if days <= 0 {
		days = RecentPatternDays
	}
	cutoff := asOf.AddDate(0, 0, -days)

	seen := make(map[string]bool)
	for _, r := range history {
		d, err := quest.ParseDate(r.Date)
		if err != nil || !d.After(cutoff) || d.After(asOf) {
			continue
		}
		if r.Pattern != "" {
			seen[r.Pattern] = true
		}
	}

	patterns := make([]string, 0, len(seen))
	for p := range seen {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}
