package analytics

import (
	"testing"

	"github.com/climbyou/engine/internal/quest"
)

func TestAnalyze_NewUserBelowMinSample(t *testing.T) {
	history := []quest.HistoryRecord{rec(1, true), rec(2, true), rec(3, false), rec(4, true)}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.SampleSize != 0 {
		t.Errorf("expected the new-user analysis, got sample size %d", a.SampleSize)
	}
	if a.ConfidenceScore != BaselineConfidence {
		t.Errorf("expected baseline confidence %f, got %f", BaselineConfidence, a.ConfidenceScore)
	}
	if a.ComfortZone != [2]float64{0.4, 0.6} {
		t.Errorf("expected neutral comfort zone, got %v", a.ComfortZone)
	}
	if a.TimeEfficiency != 1.0 {
		t.Errorf("expected time efficiency 1.0, got %f", a.TimeEfficiency)
	}
	if a.PlateauRisk != BaselineConfidence {
		t.Errorf("expected plateau prior %f, got %f", BaselineConfidence, a.PlateauRisk)
	}
}

func TestAnalyze_ConfidenceScalesWithSample(t *testing.T) {
	var history []quest.HistoryRecord
	for i := 0; i < 15; i++ {
		history = append(history, rec(i%20+1, true))
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.SampleSize != 15 {
		t.Fatalf("expected 15 windowed records, got %d", a.SampleSize)
	}
	if a.ConfidenceScore != 0.5 {
		t.Errorf("expected confidence 15/30=0.5, got %f", a.ConfidenceScore)
	}
}

func TestAnalyze_ConfidenceCapsAtOne(t *testing.T) {
	var history []quest.HistoryRecord
	for i := 0; i < 40; i++ {
		history = append(history, rec(i%25+1, true))
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.ConfidenceScore != 1.0 {
		t.Errorf("expected confidence capped at 1, got %f", a.ConfidenceScore)
	}
}

func TestStreaks(t *testing.T) {
	s := func(completed ...bool) []quest.HistoryRecord {
		out := make([]quest.HistoryRecord, len(completed))
		for i, c := range completed {
			out[i] = rec(len(completed)-i, c)
		}
		return out
	}

	tests := []struct {
		name    string
		records []quest.HistoryRecord
		current int
		longest int
		average float64
	}{
		{"trailing run", s(false, true, true, true), 3, 3, 3},
		{"broken run", s(true, false, true), 1, 1, 1},
		{"all failures", s(false, false), 0, 0, 0},
		{"empty", nil, 0, 0, 0},
		{"two runs", s(true, true, false, true), 1, 2, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest, average := Streaks(tt.records)
			if current != tt.current || longest != tt.longest || average != tt.average {
				t.Errorf("got (%d, %d, %f), want (%d, %d, %f)",
					current, longest, average, tt.current, tt.longest, tt.average)
			}
		})
	}
}

func TestAnalyze_TimeEfficiency(t *testing.T) {
	withActual := func(daysAgo, planned, actual int) quest.HistoryRecord {
		r := rec(daysAgo, true)
		r.PlannedMinutes = planned
		r.ActualMinutes = &actual
		return r
	}
	history := []quest.HistoryRecord{
		withActual(1, 20, 30), // ratio 1.5
		withActual(2, 20, 10), // ratio 0.5
		rec(3, true),          // unreported, ignored
		rec(4, true),
		rec(5, false),
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.TimeEfficiency != 1.0 {
		t.Errorf("expected mean ratio 1.0, got %f", a.TimeEfficiency)
	}
}

func TestAnalyze_PlateauRisk(t *testing.T) {
	// Earlier half all completed, recent half all skipped: risk pegs at 1.
	var history []quest.HistoryRecord
	for i := 0; i < 6; i++ {
		history = append(history, rec(12-i, true))
	}
	for i := 0; i < 6; i++ {
		history = append(history, rec(6-i, false))
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.PlateauRisk != 1.0 {
		t.Errorf("expected plateau risk 1.0, got %f", a.PlateauRisk)
	}

	found := false
	for _, f := range a.RiskFactors {
		if f == "possible plateau: recent completions trail earlier ones" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a plateau risk factor, got %v", a.RiskFactors)
	}
}

func TestAnalyze_PlateauPriorOnThinHalves(t *testing.T) {
	// Five records split 2/3; both halves need three resolutions.
	history := []quest.HistoryRecord{
		rec(5, true), rec(4, true), rec(3, false), rec(2, false), rec(1, false),
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.PlateauRisk != BaselineConfidence {
		t.Errorf("expected plateau prior %f, got %f", BaselineConfidence, a.PlateauRisk)
	}
}

func TestAnalyze_ComfortZone(t *testing.T) {
	at := func(daysAgo int, difficulty float64) quest.HistoryRecord {
		r := rec(daysAgo, true)
		r.Difficulty = difficulty
		return r
	}
	history := []quest.HistoryRecord{
		at(1, 0.2), at(2, 0.4), at(3, 0.6), at(4, 0.8), at(5, 1.0),
	}

	a := Analyze(history, asOf, DefaultWindowDays)
	if a.ComfortZone[0] != 0.4 || a.ComfortZone[1] != 0.8 {
		t.Errorf("expected comfort zone [0.4 0.8], got %v", a.ComfortZone)
	}
}
