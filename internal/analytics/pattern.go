// Package analytics derives learning statistics from quest history.
// Every function is pure: history and the observation time come in as
// arguments, nothing is cached, and sparse data degrades to documented
// defaults instead of raising.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/climbyou/engine/internal/quest"
)

const (
	// DefaultWindowDays is the standard lookback for pattern analysis.
	DefaultWindowDays = 30

	// NeutralRate is the prior used wherever no data exists. It keeps a
	// brand-new user away from both extremes.
	NeutralRate = 0.5

	// bestSlotRateFloor is the success rate an hour must beat to count
	// as a best time slot.
	bestSlotRateFloor = 0.7

	// bestSlotMinSamples keeps a single lucky completion from defining
	// a "best" hour.
	bestSlotMinSamples = 2

	// maxBestSlots caps the reported best hours.
	maxBestSlots = 3
)

// defaultTimeSlots is the fallback when no hour qualifies: morning,
// early afternoon, evening.
var defaultTimeSlots = []int{9, 14, 19}

// ComputePattern projects history inside the trailing window into a
// LearningPattern. Idempotent for identical input.
func ComputePattern(history []quest.HistoryRecord, asOf time.Time, windowDays int) quest.LearningPattern {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowed := WindowRecords(history, asOf, windowDays)

	return quest.LearningPattern{
		AverageCompletionRate: completionRate(windowed, NeutralRate),
		BestTimeSlots:         bestTimeSlots(windowed),
		PreferredDifficulty:   preferredDifficulty(windowed),
		WeeklyTrends:          weeklyTrends(history),
		ImprovementAreas:      improvementAreas(windowed),
		AnalyzedAt:            asOf,
	}
}

// WindowRecords keeps records whose calendar date falls inside the
// trailing windowDays ending at asOf. Unparseable dates are dropped.
func WindowRecords(history []quest.HistoryRecord, asOf time.Time, windowDays int) []quest.HistoryRecord {
	cutoff := asOf.AddDate(0, 0, -windowDays)
	return lo.Filter(history, func(r quest.HistoryRecord, _ int) bool {
		d, err := quest.ParseDate(r.Date)
		if err != nil {
			return false
		}
		return d.After(cutoff) && !d.After(asOf)
	})
}

// completionRate is completed/total, or fallback on an empty slice.
func completionRate(records []quest.HistoryRecord, fallback float64) float64 {
	if len(records) == 0 {
		return fallback
	}
	completed := lo.CountBy(records, func(r quest.HistoryRecord) bool { return r.Completed })
	return quest.Clamp(float64(completed)/float64(len(records)), 0, 1)
}

// bestTimeSlots buckets resolutions by hour of day and keeps hours whose
// success rate clears the floor, best first. An hour also needs at least
// bestSlotMinSamples resolutions, which is stricter than rate alone: a
// single completion at 100% does not qualify. Records resolved without a
// timestamp carry no hour and are ignored.
func bestTimeSlots(records []quest.HistoryRecord) []int {
	type bucket struct {
		attempts  int
		successes int
	}
	hours := make(map[int]*bucket)

	for _, r := range records {
		if r.ResolvedAt == nil {
			continue
		}
		h := r.ResolvedAt.Hour()
		b, ok := hours[h]
		if !ok {
			b = &bucket{}
			hours[h] = b
		}
		b.attempts++
		if r.Completed {
			b.successes++
		}
	}

	type slot struct {
		hour int
		rate float64
	}
	var qualified []slot
	for h, b := range hours {
		if b.attempts < bestSlotMinSamples {
			continue
		}
		rate := float64(b.successes) / float64(b.attempts)
		if rate > bestSlotRateFloor {
			qualified = append(qualified, slot{hour: h, rate: rate})
		}
	}
	if len(qualified) == 0 {
		out := make([]int, len(defaultTimeSlots))
		copy(out, defaultTimeSlots)
		return out
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].rate != qualified[j].rate {
			return qualified[i].rate > qualified[j].rate
		}
		return qualified[i].hour < qualified[j].hour
	})
	if len(qualified) > maxBestSlots {
		qualified = qualified[:maxBestSlots]
	}
	return lo.Map(qualified, func(s slot, _ int) int { return s.hour })
}

// preferredDifficulty is the mean difficulty of successful quests,
// clamped to [0.2, 0.8] to keep recommendations off the extremes.
// 0.5 when nothing succeeded.
func preferredDifficulty(records []quest.HistoryRecord) float64 {
	successes := lo.Filter(records, func(r quest.HistoryRecord, _ int) bool { return r.Completed })
	if len(successes) == 0 {
		return 0.5
	}
	sum := lo.SumBy(successes, func(r quest.HistoryRecord) float64 { return r.Difficulty })
	return quest.Clamp(sum/float64(len(successes)), 0.2, 0.8)
}

// weeklyTrends computes the per-weekday completion rate over the full
// supplied history. Every weekday key is present; days without data sit
// at the neutral prior.
func weeklyTrends(history []quest.HistoryRecord) map[time.Weekday]float64 {
	type tally struct {
		total     int
		completed int
	}
	counts := make(map[time.Weekday]*tally)

	for _, r := range history {
		wd, ok := quest.Weekday(r.Date)
		if !ok {
			continue
		}
		t, found := counts[wd]
		if !found {
			t = &tally{}
			counts[wd] = t
		}
		t.total++
		if r.Completed {
			t.completed++
		}
	}

	trends := make(map[time.Weekday]float64, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if t, ok := counts[wd]; ok && t.total > 0 {
			trends[wd] = float64(t.completed) / float64(t.total)
		} else {
			trends[wd] = NeutralRate
		}
	}
	return trends
}

// improvementAreas flags weak spots: overall completion below 0.5 points
// at time management, a pattern failing twice or more points at that
// pattern, and a clean slate falls back to general consistency.
func improvementAreas(records []quest.HistoryRecord) []string {
	var areas []string

	if completionRate(records, NeutralRate) < 0.5 {
		areas = append(areas, "time management")
	}

	failures := make(map[string]int)
	for _, r := range records {
		if !r.Completed && r.Pattern != "" {
			failures[r.Pattern]++
		}
	}
	patterns := lo.Keys(failures)
	sort.Strings(patterns)
	for _, p := range patterns {
		if failures[p] >= 2 {
			areas = append(areas, fmt.Sprintf("%s mastery", p))
		}
	}

	if len(areas) == 0 {
		areas = append(areas, "consistency")
	}
	return areas
}
