package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/climbyou/engine/internal/quest"
)

const (
	// MinSampleSize is the fewest windowed records needed before the
	// detailed analysis trusts its own statistics.
	MinSampleSize = 5

	// BaselineConfidence is the fixed confidence of the new-user
	// analysis.
	BaselineConfidence = 0.3

	// confidenceDenom normalizes sample size into a confidence score.
	confidenceDenom = 30

	// defaultPlannedMinutes stands in when a record carries no planned
	// time.
	defaultPlannedMinutes = 25

	// plateauHalfMinimum is the fewest resolutions each half-window
	// needs before plateau risk leaves the neutral prior.
	plateauHalfMinimum = 3
)

// NewUserAnalysis is the defined contract for insufficient history:
// neutral midpoint values at baseline confidence. Not a placeholder;
// confident statistics need a minimum sample.
func NewUserAnalysis() quest.DetailedAnalysis {
	return quest.DetailedAnalysis{
		SampleSize:      0,
		TimeEfficiency:  1.0,
		ComfortZone:     [2]float64{0.4, 0.6},
		BestWeekday:     time.Monday,
		WorstWeekday:    time.Monday,
		PlateauRisk:     BaselineConfidence,
		Recommendations: []string{"complete a few quests so the engine can learn your rhythm"},
		ConfidenceScore: BaselineConfidence,
	}
}

// Analyze computes the detailed statistical read of history inside the
// trailing window. Fewer than MinSampleSize windowed records return
// NewUserAnalysis.
func Analyze(history []quest.HistoryRecord, asOf time.Time, windowDays int) quest.DetailedAnalysis {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowed := WindowRecords(history, asOf, windowDays)
	if len(windowed) < MinSampleSize {
		return NewUserAnalysis()
	}

	current, longest, average := Streaks(windowed)
	comfort := comfortZone(windowed)
	best, worst := extremeWeekdays(windowed)
	efficiency := timeEfficiency(windowed)
	plateau := plateauRisk(windowed)
	rate := completionRate(windowed, NeutralRate)

	a := quest.DetailedAnalysis{
		SampleSize:      len(windowed),
		CurrentStreak:   current,
		LongestStreak:   longest,
		AverageStreak:   average,
		TimeEfficiency:  efficiency,
		ComfortZone:     comfort,
		BestWeekday:     best,
		WorstWeekday:    worst,
		PlateauRisk:     plateau,
		ConfidenceScore: min(1, float64(len(windowed))/confidenceDenom),
	}
	a.RiskFactors = riskFactors(rate, plateau, efficiency)
	a.Recommendations = recommendations(a, rate)
	return a
}

// Streaks walks resolutions in order and reports the trailing success
// run, the longest run, and the mean over all maximal runs. A streak
// breaks on any unsuccessful resolution.
func Streaks(records []quest.HistoryRecord) (current, longest int, average float64) {
	var runs []int
	run := 0

	for _, r := range records {
		if r.Completed {
			run++
			continue
		}
		if run > 0 {
			runs = append(runs, run)
		}
		run = 0
	}
	current = run
	if run > 0 {
		runs = append(runs, run)
	}

	for _, r := range runs {
		if r > longest {
			longest = r
		}
	}
	if len(runs) > 0 {
		average = float64(lo.Sum(runs)) / float64(len(runs))
	}
	return current, longest, average
}

// timeEfficiency is mean(actual/planned) over records reporting actual
// minutes. 1.0 when nothing was reported.
func timeEfficiency(records []quest.HistoryRecord) float64 {
	var ratios []float64
	for _, r := range records {
		if r.ActualMinutes == nil {
			continue
		}
		planned := r.PlannedMinutes
		if planned <= 0 {
			planned = defaultPlannedMinutes
		}
		ratios = append(ratios, float64(*r.ActualMinutes)/float64(planned))
	}
	if len(ratios) == 0 {
		return 1.0
	}
	return lo.Sum(ratios) / float64(len(ratios))
}

// comfortZone is the 25th-75th percentile band of successful-quest
// difficulties, the neutral [0.4, 0.6] band when nothing succeeded.
func comfortZone(records []quest.HistoryRecord) [2]float64 {
	var difficulties []float64
	for _, r := range records {
		if r.Completed {
			difficulties = append(difficulties, r.Difficulty)
		}
	}
	if len(difficulties) == 0 {
		return [2]float64{0.4, 0.6}
	}
	sort.Float64s(difficulties)
	return [2]float64{percentile(difficulties, 0.25), percentile(difficulties, 0.75)}
}

// percentile interpolates linearly over sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// extremeWeekdays picks the best and worst completion-rate weekdays
// among days that have data.
func extremeWeekdays(records []quest.HistoryRecord) (best, worst time.Weekday) {
	trends := weeklyTrends(records)

	seen := make(map[time.Weekday]bool)
	for _, r := range records {
		if wd, ok := quest.Weekday(r.Date); ok {
			seen[wd] = true
		}
	}

	best, worst = time.Monday, time.Monday
	bestRate, worstRate := -1.0, 2.0
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if !seen[wd] {
			continue
		}
		if trends[wd] > bestRate {
			bestRate, best = trends[wd], wd
		}
		if trends[wd] < worstRate {
			worstRate, worst = trends[wd], wd
		}
	}
	return best, worst
}

// plateauRisk compares the completion rate of the earlier half of the
// window against the recent half. Steady activity whose recent rate has
// fallen below the earlier rate raises the risk above the 0.3 prior;
// with fewer than plateauHalfMinimum resolutions per half the prior
// stands.
func plateauRisk(records []quest.HistoryRecord) float64 {
	mid := len(records) / 2
	earlier, recent := records[:mid], records[mid:]
	if len(earlier) < plateauHalfMinimum || len(recent) < plateauHalfMinimum {
		return BaselineConfidence
	}
	earlierRate := completionRate(earlier, NeutralRate)
	recentRate := completionRate(recent, NeutralRate)
	return quest.Clamp(0.5+(earlierRate-recentRate), 0, 1)
}

func riskFactors(rate, plateau, efficiency float64) []string {
	var factors []string
	if rate < 0.4 {
		factors = append(factors, "low completion rate")
	}
	if plateau > 0.6 {
		factors = append(factors, "possible plateau: recent completions trail earlier ones")
	}
	if efficiency > 1.5 {
		factors = append(factors, "quests routinely overrun their time estimates")
	}
	return factors
}

func recommendations(a quest.DetailedAnalysis, rate float64) []string {
	var recs []string
	if rate < 0.5 {
		recs = append(recs, "try shorter quests to rebuild momentum")
	}
	if a.TimeEfficiency > 1.3 {
		recs = append(recs, "budget more time per quest or pick lighter ones")
	}
	if a.CurrentStreak == 0 && a.LongestStreak >= 3 {
		recs = append(recs, fmt.Sprintf("you have held a %d-quest streak before; start a new one today", a.LongestStreak))
	}
	if len(recs) == 0 {
		recs = append(recs, fmt.Sprintf("%ss are your strongest day; schedule the hardest quest then", a.BestWeekday))
	}
	return recs
}
