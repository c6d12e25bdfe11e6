package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pitchside/match-center/internal/domain/match"
)

type SelectiveSyncInput struct {
	EventIDs       []string
	ForceOverwrite bool
	StatsOnly      bool
	// DateFilter and MatchTypeHint are accepted for caller convenience
	// but do not alter per-event reconciliation.
	DateFilter    string
	MatchTypeHint string
}

type ResyncReport struct {
	Resynced int          `json:"resynced"`
	Errors   int          `json:"errors"`
	Details  []SyncDetail `json:"details,omitempty"`
}

// SelectiveSync refreshes the named events one by one from the detail
// endpoint. A missing or failed event never aborts the rest of the
// batch.
func (s *MatchSyncService) SelectiveSync(ctx context.Context, input SelectiveSyncInput) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SelectiveSync")
	defer span.End()

	if err := s.ready(ctx, "selective sync"); err != nil {
		return SyncReport{}, err
	}

	eventIDs := make([]string, 0, len(input.EventIDs))
	for _, id := range input.EventIDs {
		if id = strings.TrimSpace(id); id != "" {
			eventIDs = append(eventIDs, id)
		}
	}
	if len(eventIDs) == 0 {
		return SyncReport{}, fmt.Errorf("%w: at least one event id is required", ErrInvalidInput)
	}

	opts := reconcileOptions{
		source:         match.SourceSelectiveSync,
		forceOverwrite: input.ForceOverwrite,
		statsOnly:      input.StatsOnly,
		requireChange:  !input.ForceOverwrite,
	}

	var report SyncReport
	for _, eventID := range eventIDs {
		report.add(s.syncOneEvent(ctx, eventID, opts))
	}

	s.logger.InfoContext(ctx, "selective sync finished",
		"requested", len(eventIDs),
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", report.Errors,
	)
	return report, nil
}

func (s *MatchSyncService) syncOneEvent(ctx context.Context, eventID string, opts reconcileOptions) SyncDetail {
	remote, found, err := s.provider.FetchDetail(ctx, eventID)
	if err != nil {
		// A failed detail fetch counts the same as an absent record:
		// the event is skipped, never an error, so one provider blip
		// cannot inflate the error tally.
		s.logger.WarnContext(ctx, "event detail fetch failed", "event_id", eventID, "error", err)
		return SyncDetail{ExternalID: eventID, Outcome: SyncOutcomeSkipped, Reason: skipReasonNotFound}
	}
	if !found {
		return SyncDetail{ExternalID: eventID, Outcome: SyncOutcomeSkipped, Reason: skipReasonNotFound}
	}
	return s.reconcileOne(ctx, remote, opts)
}

// ResyncIncomplete refreshes matches that are missing stat coverage,
// fanning the detail fetches out over a bounded worker pool. Result
// order follows the repository listing.
func (s *MatchSyncService) ResyncIncomplete(ctx context.Context) (ResyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.ResyncIncomplete")
	defer span.End()

	if err := s.ready(ctx, "incomplete resync"); err != nil {
		return ResyncReport{}, err
	}

	incomplete, err := s.matches.ListIncomplete(ctx, s.cfg.ResyncBatchSize)
	if err != nil {
		return ResyncReport{}, fmt.Errorf("list incomplete matches: %w", err)
	}
	if len(incomplete) == 0 {
		return ResyncReport{}, nil
	}

	workerCount := s.cfg.ResyncWorkers
	if workerCount > len(incomplete) {
		workerCount = len(incomplete)
	}

	runner, err := ants.NewPool(workerCount)
	if err != nil {
		return ResyncReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer runner.Release()

	opts := reconcileOptions{source: match.SourceResync}
	details := make([]SyncDetail, len(incomplete))

	var workers sync.WaitGroup
	for i, item := range incomplete {
		i, item := i, item
		workers.Add(1)
		if err := runner.Submit(func() {
			defer workers.Done()
			details[i] = s.syncOneEvent(ctx, item.ExternalID, opts)
		}); err != nil {
			workers.Done()
			details[i] = SyncDetail{ExternalID: item.ExternalID, Outcome: SyncOutcomeError, Reason: "submit resync task: " + err.Error()}
		}
	}
	workers.Wait()

	report := ResyncReport{Details: details}
	for _, detail := range details {
		switch detail.Outcome {
		case SyncOutcomeCreated, SyncOutcomeUpdated:
			report.Resynced++
		case SyncOutcomeError:
			report.Errors++
		}
	}

	s.logger.InfoContext(ctx, "incomplete resync finished",
		"candidates", len(incomplete),
		"resynced", report.Resynced,
		"errors", report.Errors,
	)
	return report, nil
}
