package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
)

func TestMatchService_Get_UnknownID(t *testing.T) {
	t.Parallel()

	service := NewMatchService(newStubMatchRepository(), logging.NewNop())

	_, err := service.Get(context.Background(), "ev-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = service.Get(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank id, got %v", err)
	}
}

func TestMatchService_List_ByState(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(
		match.Match{ExternalID: "ev-1", State: match.StateInPlay, RecordStatus: match.RecordStatusActive},
		match.Match{ExternalID: "ev-2", State: match.StateFinished, RecordStatus: match.RecordStatusActive},
		match.Match{ExternalID: "ev-3", State: match.StateInPlay, RecordStatus: match.RecordStatusDeleted},
	)
	service := NewMatchService(repo, logging.NewNop())

	items, err := service.List(context.Background(), MatchListFilter{State: "inplay"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].ExternalID != "ev-1" {
		t.Fatalf("unexpected listing: %+v", items)
	}

	if _, err := service.List(context.Background(), MatchListFilter{State: "warmup"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown state, got %v", err)
	}
}

func TestMatchService_List_KickoffRangeValidation(t *testing.T) {
	t.Parallel()

	service := NewMatchService(newStubMatchRepository(), logging.NewNop())

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	_, err := service.List(context.Background(), MatchListFilter{From: from, To: from})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty range, got %v", err)
	}

	_, err = service.List(context.Background(), MatchListFilter{From: from})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for half-open range, got %v", err)
	}
}

func TestMatchService_AdminUpdate_TogglesSyncProtection(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateInPlay,
		Score:        "1-0",
		RecordStatus: match.RecordStatusActive,
		AllowSync:    true,
		DataSource:   match.SourceFullSync,
	})
	service := NewMatchService(repo, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	allowSync := false
	note := "manual correction: away goal disallowed"
	score := "0-0"
	updated, err := service.AdminUpdate(context.Background(), "ev-1", AdminMatchUpdateInput{
		AllowSync: &allowSync,
		AdminNote: &note,
		Score:     &score,
	})
	if err != nil {
		t.Fatalf("AdminUpdate error: %v", err)
	}

	if updated.AllowSync {
		t.Fatal("allow sync flag not cleared")
	}
	if updated.AdminNote != note || updated.Score != "0-0" {
		t.Fatalf("edits not applied: %+v", updated)
	}
	if updated.DataSource != match.SourceAdminEdit {
		t.Fatalf("expected admin_edit provenance, got %q", updated.DataSource)
	}
}

func TestMatchService_AdminUpdate_NoChangesIsANoop(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateInPlay,
		RecordStatus: match.RecordStatusActive,
		AllowSync:    true,
		DataSource:   match.SourceFullSync,
	})
	service := NewMatchService(repo, logging.NewNop())

	allowSync := true
	updated, err := service.AdminUpdate(context.Background(), "ev-1", AdminMatchUpdateInput{AllowSync: &allowSync})
	if err != nil {
		t.Fatalf("AdminUpdate error: %v", err)
	}
	if updated.DataSource != match.SourceFullSync {
		t.Fatalf("noop update must not rewrite provenance: %q", updated.DataSource)
	}
}

func TestMatchService_AdminUpdate_RejectsUnknownState(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(match.Match{
		ExternalID:   "ev-1",
		State:        match.StateInPlay,
		RecordStatus: match.RecordStatusActive,
	})
	service := NewMatchService(repo, logging.NewNop())

	state := "extra-time"
	_, err := service.AdminUpdate(context.Background(), "ev-1", AdminMatchUpdateInput{State: &state})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMatchService_SoftAndHardDelete(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(
		match.Match{ExternalID: "ev-1", State: match.StateFinished, RecordStatus: match.RecordStatusActive},
		match.Match{ExternalID: "ev-2", State: match.StateFinished, RecordStatus: match.RecordStatusActive},
	)
	service := NewMatchService(repo, logging.NewNop())

	if err := service.SoftDelete(context.Background(), "ev-1"); err != nil {
		t.Fatalf("SoftDelete error: %v", err)
	}
	soft, _ := repo.get("ev-1")
	if soft.RecordStatus != match.RecordStatusDeleted {
		t.Fatalf("expected soft-deleted status, got %s", soft.RecordStatus)
	}

	if err := service.HardDelete(context.Background(), "ev-2"); err != nil {
		t.Fatalf("HardDelete error: %v", err)
	}
	if _, ok := repo.get("ev-2"); ok {
		t.Fatal("hard-deleted record still present")
	}

	if err := service.SoftDelete(context.Background(), "ev-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMatchService_Counts(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(
		match.Match{ExternalID: "ev-1", State: match.StateInPlay, RecordStatus: match.RecordStatusActive},
		match.Match{ExternalID: "ev-2", State: match.StateInPlay, RecordStatus: match.RecordStatusActive},
		match.Match{ExternalID: "ev-3", State: match.StateFinished, RecordStatus: match.RecordStatusActive},
	)
	service := NewMatchService(repo, logging.NewNop())

	counts, err := service.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts error: %v", err)
	}
	if counts[match.StateInPlay] != 2 || counts[match.StateFinished] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
