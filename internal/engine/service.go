// Package engine wires the pipeline together: store → analytics →
// planner → generation gateway → store. It is the surface the mobile
// app (and the dev CLI) consume.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/climbyou/engine/internal/analytics"
	"github.com/climbyou/engine/internal/planner"
	"github.com/climbyou/engine/internal/quest"
	"github.com/climbyou/engine/internal/questgen"
	"github.com/climbyou/engine/internal/report"
	"github.com/climbyou/engine/internal/store"
)

// ProfileReader is the slice of the store the engine reads profiles
// through.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*quest.Profile, error)
}

// HistoryStore appends and reads quest-history records.
type HistoryStore interface {
	Append(ctx context.Context, rec quest.HistoryRecord) error
	Since(ctx context.Context, userID, sinceDate string) ([]quest.HistoryRecord, error)
}

// PlanStore reads and writes daily plans.
type PlanStore interface {
	GetForDate(ctx context.Context, userID, date string) (*quest.DailyPlan, error)
	Save(ctx context.Context, p *quest.DailyPlan) error
}

// Service runs generation and analytics cycles. Stateless between
// calls; concurrent generations for the same (user, date) must be
// serialized by the caller, as plan saves are last-write-wins.
type Service struct {
	profiles  ProfileReader
	history   HistoryStore
	plans     PlanStore
	generator questgen.Generator

	windowDays int
	now        func() time.Time
	log        *logrus.Entry
}

// NewService assembles a Service. A nil logger falls back to the
// standard logrus logger.
func NewService(profiles ProfileReader, history HistoryStore, plans PlanStore, generator questgen.Generator, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		profiles:   profiles,
		history:    history,
		plans:      plans,
		generator:  generator,
		windowDays: analytics.DefaultWindowDays,
		now:        time.Now,
		log:        logger.WithField("component", "engine"),
	}
}

// GeneratePlan produces (or returns) the quest plan for userID on date.
// An existing plan for the date is returned as-is unless force is set.
func (s *Service) GeneratePlan(ctx context.Context, userID string, date time.Time, force bool) (*quest.DailyPlan, error) {
	dateStr := quest.FormatDate(date)
	log := s.log.WithFields(logrus.Fields{"user_id": userID, "date": dateStr})

	if !force {
		existing, err := s.plans.GetForDate(ctx, userID, dateStr)
		if err == nil {
			log.Debug("returning existing plan")
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, quest.NewError(quest.KindStorage, err, "loading plan for %s", dateStr)
		}
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, quest.NewError(quest.KindValidation, err, "no profile for user %s", userID)
		}
		return nil, quest.NewError(quest.KindStorage, err, "loading profile for user %s", userID)
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	pattern := analytics.ComputePattern(history, date, s.windowDays)
	adjustments := planner.DetermineAdjustments(date, pattern, history)
	config := planner.OptimalConfig(*profile, adjustments)
	avoid := planner.RecentPatterns(history, date, planner.RecentPatternDays)

	log.WithFields(logrus.Fields{
		"quest_count":   config.QuestCount,
		"total_minutes": config.TotalMinutes,
		"difficulty":    config.AverageDifficulty,
		"avoid":         avoid,
	}).Info("generating daily plan")

	plan, err := s.generator.Generate(ctx, questgen.GenerateInput{
		Profile:       *profile,
		Date:          date,
		Config:        config,
		AvoidPatterns: avoid,
		Rationale:     adjustments.Reasons,
	})
	if err != nil {
		log.WithError(err).Warn("plan generation failed")
		return nil, err
	}

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, quest.NewError(quest.KindStorage, err, "saving plan for %s", dateStr)
	}

	log.WithField("quests", len(plan.Quests)).Info("plan saved")
	return plan, nil
}

// ResolveQuest appends the resolution record for a completed or skipped
// quest. Records are append-only: a correction is another record.
func (s *Service) ResolveQuest(ctx context.Context, rec quest.HistoryRecord) error {
	if rec.UserID == "" || rec.QuestID == "" {
		return quest.NewError(quest.KindValidation, nil, "resolution needs userId and questId")
	}
	if rec.Date == "" {
		rec.Date = quest.FormatDate(s.now())
	}
	if _, err := quest.ParseDate(rec.Date); err != nil {
		return quest.NewError(quest.KindValidation, err, "bad resolution date %q", rec.Date)
	}
	if rec.Difficulty < 0 || rec.Difficulty > 1 {
		return quest.NewError(quest.KindValidation, nil, "difficulty %.2f outside [0,1]", rec.Difficulty)
	}
	if rec.Rating != nil && (*rec.Rating < 1 || *rec.Rating > 5) {
		return quest.NewError(quest.KindValidation, nil, "rating %d outside 1-5", *rec.Rating)
	}
	if rec.ResolvedAt == nil {
		now := s.now()
		rec.ResolvedAt = &now
	}

	if err := s.history.Append(ctx, rec); err != nil {
		return quest.NewError(quest.KindStorage, err, "appending history record")
	}
	return nil
}

// WeeklyReport synthesizes the report for the week starting at
// weekStart.
func (s *Service) WeeklyReport(ctx context.Context, userID string, weekStart time.Time) (*quest.WeeklyReport, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)

	// Reach back far enough to cover the analysis window and the
	// comparison week.
	since := weekEnd.AddDate(0, 0, -(s.windowDays + 7))
	history, err := s.historySince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	analysis := analytics.Analyze(history, weekEnd, s.windowDays)
	r := report.BuildWeeklyReport(history, analysis, weekStart)
	return &r, nil
}

// Stats returns the current learning pattern and detailed analysis.
func (s *Service) Stats(ctx context.Context, userID string) (quest.LearningPattern, quest.DetailedAnalysis, error) {
	now := s.now()
	history, err := s.loadHistory(ctx, userID, now)
	if err != nil {
		return quest.LearningPattern{}, quest.DetailedAnalysis{}, err
	}
	return analytics.ComputePattern(history, now, s.windowDays),
		analytics.Analyze(history, now, s.windowDays), nil
}

func (s *Service) loadHistory(ctx context.Context, userID string, asOf time.Time) ([]quest.HistoryRecord, error) {
	return s.historySince(ctx, userID, asOf.AddDate(0, 0, -s.windowDays))
}

func (s *Service) historySince(ctx context.Context, userID string, since time.Time) ([]quest.HistoryRecord, error) {
	history, err := s.history.Since(ctx, userID, quest.FormatDate(since))
	if err != nil {
		return nil, quest.NewError(quest.KindStorage, err, "loading history for user %s", userID)
	}
	return history, nil
}

func validateProfile(p *quest.Profile) error {
	switch {
	case p.GoalText == "":
		return quest.NewError(quest.KindValidation, nil, "profile has no goal text")
	case p.TimeBudgetMinPerDay <= 0:
		return quest.NewError(quest.KindValidation, nil, "daily time budget must be positive, got %d", p.TimeBudgetMinPerDay)
	case p.PreferredSessionLengthMin <= 0:
		return quest.NewError(quest.KindValidation, nil, "preferred session length must be positive, got %d", p.PreferredSessionLengthMin)
	case p.DifficultyTolerance < 0 || p.DifficultyTolerance > 1:
		return quest.NewError(quest.KindValidation, nil, "difficulty tolerance %.2f outside [0,1]", p.DifficultyTolerance)
	}
	return nil
}
