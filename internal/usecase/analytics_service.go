package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
)

// AnalyticsService derives read-only quality signals from stored match
// records. It never writes back to the store.
type AnalyticsService struct {
	matches match.Repository
	logger  *logging.Logger
}

func NewAnalyticsService(matches match.Repository, logger *logging.Logger) *AnalyticsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AnalyticsService{
		matches: matches,
		logger:  logger,
	}
}

type FieldCompleteness struct {
	Percent float64 `json:"percent"`
	Missing int     `json:"missing"`
}

type CompletenessReport struct {
	ActiveMatches  int               `json:"active_matches"`
	Stats          FieldCompleteness `json:"stats"`
	XG             FieldCompleteness `json:"xg"`
	PossessionRT   FieldCompleteness `json:"possession_rt"`
	Timer          FieldCompleteness `json:"timer"`
	OverallPercent int               `json:"overall_percent"`
}

// DataCompleteness measures how much of the active record set carries
// stats, expected goals, live possession and a timer. The overall
// figure is the plain average of the four coverage percentages.
func (s *AnalyticsService) DataCompleteness(ctx context.Context) (CompletenessReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.DataCompleteness")
	defer span.End()

	items, err := s.matches.ListActive(ctx, 0)
	if err != nil {
		return CompletenessReport{}, fmt.Errorf("list active matches: %w", err)
	}

	report := CompletenessReport{ActiveMatches: len(items)}
	if len(items) == 0 {
		return report, nil
	}

	var withStats, withXG, withPossession, withTimer int
	for _, item := range items {
		if !item.Stats.IsEmpty() {
			withStats++
		}
		if item.Stats != nil && item.Stats.XG != nil {
			withXG++
		}
		if item.Stats != nil && item.Stats.PossessionRT != nil {
			withPossession++
		}
		if item.Timer != nil {
			withTimer++
		}
	}

	total := len(items)
	report.Stats = fieldCompleteness(withStats, total)
	report.XG = fieldCompleteness(withXG, total)
	report.PossessionRT = fieldCompleteness(withPossession, total)
	report.Timer = fieldCompleteness(withTimer, total)
	report.OverallPercent = int(math.Round(
		(report.Stats.Percent + report.XG.Percent + report.PossessionRT.Percent + report.Timer.Percent) / 4,
	))
	return report, nil
}

func fieldCompleteness(have, total int) FieldCompleteness {
	return FieldCompleteness{
		Percent: float64(have) / float64(total) * 100,
		Missing: total - have,
	}
}

type QualityReport struct {
	ExternalID       string  `json:"external_id"`
	Score            float64 `json:"score"`
	Rating           string  `json:"rating"`
	Goals            float64 `json:"goals"`
	Shots            float64 `json:"shots"`
	OnTarget         float64 `json:"on_target"`
	DangerousAttacks float64 `json:"dangerous_attacks"`
}

// AssessQuality scores how eventful a match was. Each component is
// capped at 25 so one runaway metric cannot dominate the score.
func (s *AnalyticsService) AssessQuality(ctx context.Context, externalID string) (QualityReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.AssessQuality")
	defer span.End()

	item, err := s.getMatch(ctx, externalID)
	if err != nil {
		return QualityReport{}, err
	}

	stats := item.Stats
	if stats == nil {
		stats = &match.Stats{}
	}

	report := QualityReport{
		ExternalID:       item.ExternalID,
		Goals:            stats.Goals.Total(),
		Shots:            stats.GoalAttempts.Total(),
		OnTarget:         stats.OnTarget.Total(),
		DangerousAttacks: stats.DangerousAttacks.Total(),
	}
	report.Score = math.Min(report.Goals*5, 25) +
		math.Min(report.Shots*1.5, 25) +
		math.Min(report.OnTarget*3, 25) +
		math.Min(report.DangerousAttacks*0.5, 25)
	report.Rating = qualityRating(report.Score)
	return report, nil
}

func qualityRating(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "average"
	default:
		return "poor"
	}
}

type DominanceReport struct {
	ExternalID string  `json:"external_id"`
	Home       float64 `json:"home"`
	Away       float64 `json:"away"`
}

// DominanceScores weighs possession, attack share, dangerous-attack
// share and on-target share into one 0-100 figure per side.
func (s *AnalyticsService) DominanceScores(ctx context.Context, externalID string) (DominanceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.DominanceScores")
	defer span.End()

	item, err := s.getMatch(ctx, externalID)
	if err != nil {
		return DominanceReport{}, err
	}

	stats := item.Stats
	if stats == nil {
		stats = &match.Stats{}
	}

	report := DominanceReport{ExternalID: item.ExternalID}
	report.Home = dominanceSide(
		stats.PossessionRT.HomeValue(),
		share(stats.Attacks.HomeValue(), stats.Attacks.AwayValue()),
		share(stats.DangerousAttacks.HomeValue(), stats.DangerousAttacks.AwayValue()),
		share(stats.OnTarget.HomeValue(), stats.OnTarget.AwayValue()),
	)
	report.Away = dominanceSide(
		stats.PossessionRT.AwayValue(),
		share(stats.Attacks.AwayValue(), stats.Attacks.HomeValue()),
		share(stats.DangerousAttacks.AwayValue(), stats.DangerousAttacks.HomeValue()),
		share(stats.OnTarget.AwayValue(), stats.OnTarget.HomeValue()),
	)
	return report, nil
}

func dominanceSide(possession, attackShare, dangerousShare, onTargetShare float64) float64 {
	return possession*0.4 + attackShare*100*0.3 + dangerousShare*100*0.2 + onTargetShare*100*0.1
}

func share(own, opposing float64) float64 {
	total := own + opposing
	if total == 0 {
		return 0
	}
	return own / total
}

func (s *AnalyticsService) getMatch(ctx context.Context, externalID string) (match.Match, error) {
	if externalID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, ok, err := s.matches.GetByExternalID(ctx, externalID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", externalID, err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, externalID)
	}
	return item, nil
}
