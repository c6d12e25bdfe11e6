package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
)

func TestAnalyticsService_AssessQuality_EventfulMatch(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateFinished,
		RecordStatus: match.RecordStatusActive,
		Stats: &match.Stats{
			Goals:            pairOf("2", "1"),
			GoalAttempts:     pairOf("9", "3"),
			OnTarget:         pairOf("6", "1"),
			DangerousAttacks: pairOf("63", "19"),
		},
	})
	service := NewAnalyticsService(repo, logging.NewNop())

	report, err := service.AssessQuality(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("AssessQuality error: %v", err)
	}
	if report.Score != 79 {
		t.Fatalf("expected score 79, got %v", report.Score)
	}
	if report.Rating != "good" {
		t.Fatalf("expected rating good, got %q", report.Rating)
	}
	if report.Goals != 3 || report.Shots != 12 || report.OnTarget != 7 || report.DangerousAttacks != 82 {
		t.Fatalf("unexpected component totals: %+v", report)
	}
}

func TestAnalyticsService_AssessQuality_MissingStatsScoreZero(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateScheduled,
		RecordStatus: match.RecordStatusActive,
	})
	service := NewAnalyticsService(repo, logging.NewNop())

	report, err := service.AssessQuality(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("AssessQuality error: %v", err)
	}
	if report.Score != 0 || report.Rating != "poor" {
		t.Fatalf("unexpected report for statless match: %+v", report)
	}
}

func TestAnalyticsService_AssessQuality_UnknownMatch(t *testing.T) {
	t.Parallel()

	service := NewAnalyticsService(newStubMatchRepository(), logging.NewNop())

	_, err := service.AssessQuality(context.Background(), "ev-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnalyticsService_DataCompleteness_AveragesFieldCoverage(t *testing.T) {
	t.Parallel()

	seed := make([]match.Match, 0, 10)
	for i := 0; i < 10; i++ {
		item := match.Match{
			ExternalID:   fmt.Sprintf("ev-%02d", i),
			State:        match.StateInPlay,
			RecordStatus: match.RecordStatusActive,
			Stats:        &match.Stats{Goals: pairOf("1", "0")},
			Timer:        &match.Timer{Minutes: 60},
		}
		if i < 7 {
			item.Stats.XG = pairOf("1.1", "0.4")
		}
		if i < 5 {
			item.Stats.PossessionRT = pairOf("52", "48")
		}
		seed = append(seed, item)
	}
	service := NewAnalyticsService(newStubMatchRepository(seed...), logging.NewNop())

	report, err := service.DataCompleteness(context.Background())
	if err != nil {
		t.Fatalf("DataCompleteness error: %v", err)
	}
	if report.ActiveMatches != 10 {
		t.Fatalf("expected 10 active matches, got %d", report.ActiveMatches)
	}
	if report.Stats.Percent != 100 || report.Stats.Missing != 0 {
		t.Fatalf("unexpected stats coverage: %+v", report.Stats)
	}
	if report.XG.Percent != 70 || report.XG.Missing != 3 {
		t.Fatalf("unexpected xg coverage: %+v", report.XG)
	}
	if report.PossessionRT.Percent != 50 || report.PossessionRT.Missing != 5 {
		t.Fatalf("unexpected possession coverage: %+v", report.PossessionRT)
	}
	if report.Timer.Percent != 100 || report.Timer.Missing != 0 {
		t.Fatalf("unexpected timer coverage: %+v", report.Timer)
	}
	if report.OverallPercent != 80 {
		t.Fatalf("expected overall 80, got %d", report.OverallPercent)
	}
}

func TestAnalyticsService_DataCompleteness_EmptyStore(t *testing.T) {
	t.Parallel()

	service := NewAnalyticsService(newStubMatchRepository(), logging.NewNop())

	report, err := service.DataCompleteness(context.Background())
	if err != nil {
		t.Fatalf("DataCompleteness error: %v", err)
	}
	if report.ActiveMatches != 0 || report.OverallPercent != 0 {
		t.Fatalf("unexpected report for empty store: %+v", report)
	}
}

func TestAnalyticsService_DominanceScores_WeighsAllComponents(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateInPlay,
		RecordStatus: match.RecordStatusActive,
		Stats: &match.Stats{
			PossessionRT:     pairOf("60", "40"),
			Attacks:          pairOf("80", "20"),
			DangerousAttacks: pairOf("30", "10"),
			OnTarget:         pairOf("6", "2"),
		},
	})
	service := NewAnalyticsService(repo, logging.NewNop())

	report, err := service.DominanceScores(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("DominanceScores error: %v", err)
	}

	// home: 60*0.4 + 0.8*100*0.3 + 0.75*100*0.2 + 0.75*100*0.1 = 70.5
	if math.Abs(report.Home-70.5) > 1e-9 {
		t.Fatalf("unexpected home dominance: %v", report.Home)
	}
	// away: 40*0.4 + 0.2*100*0.3 + 0.25*100*0.2 + 0.25*100*0.1 = 29.5
	if math.Abs(report.Away-29.5) > 1e-9 {
		t.Fatalf("unexpected away dominance: %v", report.Away)
	}
}

func TestAnalyticsService_DominanceScores_ZeroTotalsYieldZeroShares(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateInPlay,
		RecordStatus: match.RecordStatusActive,
		Stats: &match.Stats{
			PossessionRT:     pairOf("60", "40"),
			Attacks:          pairOf("0", "0"),
			DangerousAttacks: pairOf("0", "0"),
			OnTarget:         pairOf("0", "0"),
		},
	})
	service := NewAnalyticsService(repo, logging.NewNop())

	report, err := service.DominanceScores(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("DominanceScores error: %v", err)
	}
	if report.Home != 24 || report.Away != 16 {
		t.Fatalf("expected possession-only scores 24/16, got %v/%v", report.Home, report.Away)
	}
}
