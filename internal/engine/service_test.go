package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/climbyou/engine/internal/quest"
	"github.com/climbyou/engine/internal/questgen"
	"github.com/climbyou/engine/internal/store"
)

var genDate = time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewService(st.Profiles(), st.History(), st.Plans(), questgen.NewStatic(), logger)
	return svc, st
}

func seedProfile(t *testing.T, st *store.Store) {
	t.Helper()
	err := st.Profiles().Save(context.Background(), &quest.Profile{
		UserID:                    "u1",
		GoalText:                  "hold a 10-minute conversation in Spanish",
		Category:                  "language",
		TimeBudgetMinPerDay:       60,
		PreferredSessionLengthMin: 20,
		DifficultyTolerance:       0.6,
		MotivationStyle:           "achievement",
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestGeneratePlan_FreshUser(t *testing.T) {
	svc, st := testService(t)
	seedProfile(t, st)

	plan, err := svc.GeneratePlan(context.Background(), "u1", genDate, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Date != "2026-03-20" {
		t.Errorf("plan date = %q", plan.Date)
	}
	// 60-minute budget at 20-minute sessions: three quests.
	if len(plan.Quests) != 3 {
		t.Errorf("expected 3 quests, got %d", len(plan.Quests))
	}
	if plan.TotalMinutes > 60 {
		t.Errorf("plan exceeds budget: %d minutes", plan.TotalMinutes)
	}

	// The plan is persisted.
	stored, err := st.Plans().GetForDate(context.Background(), "u1", "2026-03-20")
	if err != nil {
		t.Fatalf("stored plan missing: %v", err)
	}
	if len(stored.Quests) != 3 {
		t.Errorf("stored plan has %d quests", len(stored.Quests))
	}
}

func TestGeneratePlan_ReturnsCachedUnlessForced(t *testing.T) {
	svc, st := testService(t)
	seedProfile(t, st)
	ctx := context.Background()

	first, err := svc.GeneratePlan(ctx, "u1", genDate, false)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	second, err := svc.GeneratePlan(ctx, "u1", genDate, false)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.Quests[0].ID != first.Quests[0].ID {
		t.Error("expected the cached plan, got a regeneration")
	}

	forced, err := svc.GeneratePlan(ctx, "u1", genDate, true)
	if err != nil {
		t.Fatalf("forced generate: %v", err)
	}
	if forced.Quests[0].ID == first.Quests[0].ID {
		t.Error("force should regenerate with fresh quest IDs")
	}
}

func TestGeneratePlan_NoProfile(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.GeneratePlan(context.Background(), "ghost", genDate, false)
	if err == nil {
		t.Fatal("expected error for missing profile")
	}
	if quest.KindOf(err) != quest.KindValidation {
		t.Errorf("expected validation kind, got %q", quest.KindOf(err))
	}
}

func TestGeneratePlan_InvalidProfile(t *testing.T) {
	svc, st := testService(t)
	err := st.Profiles().Save(context.Background(), &quest.Profile{
		UserID:   "u1",
		GoalText: "", // missing goal
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.GeneratePlan(context.Background(), "u1", genDate, false)
	if quest.KindOf(err) != quest.KindValidation {
		t.Errorf("expected validation kind, got %v", err)
	}
}

func TestGeneratePlan_GeneratorFailurePropagates(t *testing.T) {
	_, st := testService(t)
	seedProfile(t, st)

	failing := &failingGenerator{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewService(st.Profiles(), st.History(), st.Plans(), failing, logger)

	_, err := svc.GeneratePlan(context.Background(), "u1", genDate, false)
	if quest.KindOf(err) != quest.KindGeneration {
		t.Errorf("expected generation kind, got %v", err)
	}

	// Nothing half-written lands in the store.
	if _, err := st.Plans().GetForDate(context.Background(), "u1", "2026-03-20"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected no stored plan, got %v", err)
	}
}

type failingGenerator struct{}

func (f *failingGenerator) Generate(context.Context, questgen.GenerateInput) (*quest.DailyPlan, error) {
	return nil, quest.NewError(quest.KindGeneration, nil, "quest generation failed after 3 attempts")
}

func TestResolveQuest(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	err := svc.ResolveQuest(ctx, quest.HistoryRecord{
		UserID: "u1", QuestID: "q1", Title: "Read an article",
		Pattern: "reading_notes", Difficulty: 0.5, PlannedMinutes: 20,
		Completed: true, Date: "2026-03-20",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got, err := st.History().Since(ctx, "u1", "2026-03-20")
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].ResolvedAt == nil {
		t.Error("expected ResolvedAt defaulted to now")
	}
}

func TestResolveQuest_Validation(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	rating := 9

	tests := []struct {
		name string
		rec  quest.HistoryRecord
	}{
		{"missing user", quest.HistoryRecord{QuestID: "q1"}},
		{"missing quest", quest.HistoryRecord{UserID: "u1"}},
		{"bad date", quest.HistoryRecord{UserID: "u1", QuestID: "q1", Date: "20-03-2026"}},
		{"difficulty out of range", quest.HistoryRecord{UserID: "u1", QuestID: "q1", Difficulty: 1.5}},
		{"rating out of range", quest.HistoryRecord{UserID: "u1", QuestID: "q1", Rating: &rating}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ResolveQuest(ctx, tt.rec)
			if quest.KindOf(err) != quest.KindValidation {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestResolveQuest_AppendOnly(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	// Resolve the same quest twice: a correction is a second record.
	rec := quest.HistoryRecord{
		UserID: "u1", QuestID: "q1", Completed: false, Date: "2026-03-20",
	}
	if err := svc.ResolveQuest(ctx, rec); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	rec.Completed = true
	if err := svc.ResolveQuest(ctx, rec); err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	got, err := st.History().Since(ctx, "u1", "2026-03-20")
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both records kept, got %d", len(got))
	}
	if got[0].Completed || !got[1].Completed {
		t.Error("expected records in insertion order")
	}
}

func TestStats_NewUser(t *testing.T) {
	svc, _ := testService(t)

	pattern, analysis, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if pattern.AverageCompletionRate != 0.5 {
		t.Errorf("expected neutral rate, got %f", pattern.AverageCompletionRate)
	}
	if analysis.ConfidenceScore != 0.3 {
		t.Errorf("expected baseline confidence, got %f", analysis.ConfidenceScore)
	}
}

func TestWeeklyReport(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	// Monday of the reported week.
	weekStart := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := svc.ResolveQuest(ctx, quest.HistoryRecord{
			UserID: "u1", QuestID: "q1", Pattern: "reading_notes",
			Difficulty: 0.5, PlannedMinutes: 20, Completed: i < 4,
			Date: quest.FormatDate(weekStart.AddDate(0, 0, i)),
		})
		if err != nil {
			t.Fatalf("seed resolve %d: %v", i, err)
		}
	}

	r, err := svc.WeeklyReport(ctx, "u1", weekStart)
	if err != nil {
		t.Fatalf("weekly report: %v", err)
	}
	if r.WeekStart != "2026-03-16" || r.WeekEnd != "2026-03-22" {
		t.Errorf("unexpected bounds %s..%s", r.WeekStart, r.WeekEnd)
	}
	if r.Summary.TotalQuests != 5 || r.Summary.CompletedQuests != 4 {
		t.Errorf("summary %d/%d, want 4/5", r.Summary.CompletedQuests, r.Summary.TotalQuests)
	}
	if r.Summary.StreakDays != 4 {
		t.Errorf("streak days = %d, want 4", r.Summary.StreakDays)
	}
}
