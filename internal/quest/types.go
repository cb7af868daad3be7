package quest

import "time"

// Profile is the learner's stable configuration. It is immutable within a
// generation cycle; onboarding and profile-edit flows own mutation.
type Profile struct {
	UserID string `json:"userId"`

	// GoalText is the learner's long-term goal in their own words,
	// e.g. "hold a 10-minute conversation in Spanish".
	GoalText string `json:"goalText"`

	// Category is the goal's coarse domain, e.g. "language", "fitness".
	Category string `json:"category"`

	// TimeBudgetMinPerDay is the total minutes the learner wants to
	// invest per day.
	TimeBudgetMinPerDay int `json:"timeBudgetMinPerDay"`

	// PreferredSessionLengthMin is the comfortable length of a single
	// quest in minutes.
	PreferredSessionLengthMin int `json:"preferredSessionLengthMin"`

	// DifficultyTolerance is the learner's comfort with challenging
	// content. Range: 0.0 - 1.0.
	DifficultyTolerance float64 `json:"difficultyTolerance"`

	// MotivationStyle hints how quests should be framed,
	// e.g. "achievement", "social", "curiosity".
	MotivationStyle string `json:"motivationStyle"`

	// PeakHours are the hours of day (0-23) the learner reports as
	// their most productive.
	PeakHours []int `json:"peakHours,omitempty"`

	// HardConstraints must be honored by generated quests
	// (e.g. "no audio exercises at the office").
	HardConstraints []string `json:"hardConstraints,omitempty"`

	// SoftConstraints are preferences the generator should lean toward.
	SoftConstraints []string `json:"softConstraints,omitempty"`
}

// HistoryRecord is the append-only record of a resolved quest.
// Created when a quest is completed or skipped, never mutated afterward;
// corrections are new records.
type HistoryRecord struct {
	UserID  string `json:"userId" db:"user_id"`
	QuestID string `json:"questId" db:"quest_id"`
	Title   string `json:"title" db:"title"`

	// Pattern is the quest's pedagogical shape tag,
	// e.g. "reading_notes", "shadowing", "micro_build".
	Pattern string `json:"pattern" db:"pattern"`

	// Difficulty is the difficulty the quest was scheduled at. Range 0-1.
	Difficulty float64 `json:"difficulty" db:"difficulty"`

	// PlannedMinutes is the time the plan allotted.
	PlannedMinutes int `json:"plannedMinutes" db:"planned_minutes"`

	// ActualMinutes is the time actually spent. Nil until the learner
	// reports it (skips usually carry none).
	ActualMinutes *int `json:"actualMinutes,omitempty" db:"actual_minutes"`

	// Completed is true for a successful resolution, false for a skip
	// or give-up.
	Completed bool `json:"completed" db:"completed"`

	// Rating is the learner's optional 1-5 feedback.
	Rating *int `json:"rating,omitempty" db:"rating"`

	// ResolvedAt is the wall-clock resolution time when known.
	ResolvedAt *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`

	// Date is the calendar date the quest belonged to, YYYY-MM-DD.
	Date string `json:"date" db:"date"`
}

// LearningPattern is a projection of the learner's history inside a
// lookback window. It holds no independent authority: recompute, never
// persist as source of truth.
type LearningPattern struct {
	// AverageCompletionRate is completed/total inside the window.
	// Exactly 0.5 on an empty window (neutral prior).
	AverageCompletionRate float64 `json:"averageCompletionRate"`

	// BestTimeSlots are up to 3 hours of day (0-23) where the learner's
	// success rate exceeds 0.7, best first.
	BestTimeSlots []int `json:"bestTimeSlots"`

	// PreferredDifficulty is the mean difficulty of successful quests,
	// clamped to [0.2, 0.8]. 0.5 when no successes exist.
	PreferredDifficulty float64 `json:"preferredDifficulty"`

	// WeeklyTrends maps each weekday to its completion rate over the
	// full supplied history. Days with no data sit at 0.5.
	WeeklyTrends map[time.Weekday]float64 `json:"weeklyTrends"`

	// ImprovementAreas are human-readable labels for weak spots.
	ImprovementAreas []string `json:"improvementAreas"`

	AnalyzedAt time.Time `json:"analyzedAt"`
}

// DetailedAnalysis is the deeper statistical read of a learner's history.
// Sparse histories return NewUserAnalysis instead of raising.
type DetailedAnalysis struct {
	SampleSize int `json:"sampleSize"`

	// CurrentStreak is the length of the trailing run of successful
	// resolutions. LongestStreak is the longest such run; AverageStreak
	// the mean over all maximal runs.
	CurrentStreak int     `json:"currentStreak"`
	LongestStreak int     `json:"longestStreak"`
	AverageStreak float64 `json:"averageStreak"`

	// TimeEfficiency is mean(actual/planned) over records that report
	// actual minutes. 1.0 means estimates are accurate; below 1.0 the
	// learner finishes early.
	TimeEfficiency float64 `json:"timeEfficiency"`

	// ComfortZone is the 25th-75th percentile band of successful-quest
	// difficulties.
	ComfortZone [2]float64 `json:"comfortZone"`

	BestWeekday  time.Weekday `json:"bestWeekday"`
	WorstWeekday time.Weekday `json:"worstWeekday"`

	// PlateauRisk estimates whether progress has stalled despite
	// continued activity. Range 0-1, neutral prior 0.3.
	PlateauRisk float64 `json:"plateauRisk"`

	RiskFactors     []string `json:"riskFactors"`
	Recommendations []string `json:"recommendations"`

	// ConfidenceScore scales with sample size: min(1, sampleSize/30).
	// The fixed new-user baseline is 0.3.
	ConfidenceScore float64 `json:"confidenceScore"`
}

// Quest is a single generated learning task. Immutable once returned;
// it becomes a HistoryRecord upon resolution.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Pattern is the pedagogical shape tag.
	Pattern string `json:"pattern"`

	// Minutes is the estimated time. Always >= 1.
	Minutes int `json:"minutes"`

	// Difficulty in [0,1].
	Difficulty float64 `json:"difficulty"`

	Instructions    []string `json:"instructions"`
	SuccessCriteria []string `json:"successCriteria"`

	// GoalContribution explains how this quest advances the long-term goal.
	GoalContribution string `json:"goalContribution,omitempty"`

	// MotivationMessage is a short encouragement tuned to the learner's
	// motivation style.
	MotivationMessage string `json:"motivationMessage,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// DailyPlan is one user's quest plan for one calendar date.
// Regeneration overwrites the stored plan only when explicitly forced.
type DailyPlan struct {
	UserID string `json:"userId"`

	// Date is the target calendar date, YYYY-MM-DD.
	Date string `json:"date"`

	Quests []Quest `json:"quests"`

	// TotalMinutes equals the sum of the quests' minutes and never
	// exceeds the adjusted daily budget.
	TotalMinutes int `json:"totalMinutes"`

	// Rationale lists the contextual adjustments applied during
	// planning, human-readable.
	Rationale []string `json:"rationale"`

	AverageDifficulty float64 `json:"averageDifficulty"`

	// DailyMessage is the generator's one-line framing for the day.
	DailyMessage string `json:"dailyMessage,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// WeeklySummary aggregates one week of history.
type WeeklySummary struct {
	TotalQuests     int     `json:"totalQuests"`
	CompletedQuests int     `json:"completedQuests"`
	CompletionRate  float64 `json:"completionRate"`

	// LearningMinutes sums actual minutes where reported, falling back
	// to planned minutes for completed quests without a report.
	LearningMinutes int `json:"learningMinutes"`

	AverageDifficulty float64 `json:"averageDifficulty"`

	// StreakDays counts distinct dates with at least one success.
	StreakDays int `json:"streakDays"`

	// Consistency is StreakDays/7.
	Consistency float64 `json:"consistency"`
}

// WeekComparison relates a week to the one before it.
type WeekComparison struct {
	CompletionRateDelta float64 `json:"completionRateDelta"`
	MinutesDelta        int     `json:"minutesDelta"`

	// Trend is "improving", "declining" or "stable".
	Trend string `json:"trend"`
}

// WeeklyReport is the synthesized weekly progress report. Derived,
// recomputed per request, never mutated in place.
type WeeklyReport struct {
	// WeekStart/WeekEnd bound the reported week, YYYY-MM-DD inclusive.
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`

	Summary                WeeklySummary  `json:"summary"`
	ComparedToPreviousWeek WeekComparison `json:"comparedToPreviousWeek"`

	Achievements    []string `json:"achievements"`
	Challenges      []string `json:"challenges"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	NextWeekGoals   []string `json:"nextWeekGoals"`

	// ConfidenceScore blends week-sample and total-sample sizes,
	// each capped at 1. Range 0-1.
	ConfidenceScore float64 `json:"confidenceScore"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Trend labels shared by planner and report.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
