package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// MatchService serves local reads and the admin-side record edits that
// flip sync protection.
type MatchService struct {
	matches match.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchService(matches match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matches: matches,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *MatchService) Get(ctx context.Context, externalID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	found, ok, err := s.matches.GetByExternalID(ctx, externalID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", externalID, err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, externalID)
	}
	return found, nil
}

type MatchListFilter struct {
	State string
	From  time.Time
	To    time.Time
	Limit int
}

func (s *MatchService) List(ctx context.Context, filter MatchListFilter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if state := strings.TrimSpace(filter.State); state != "" {
		parsed, ok := match.ParseState(state)
		if !ok {
			return nil, fmt.Errorf("%w: unknown match state %q", ErrInvalidInput, state)
		}
		items, err := s.matches.ListByState(ctx, parsed, limit)
		if err != nil {
			return nil, fmt.Errorf("list matches state=%s: %w", parsed, err)
		}
		return items, nil
	}

	if !filter.From.IsZero() || !filter.To.IsZero() {
		if filter.From.IsZero() || filter.To.IsZero() || !filter.From.Before(filter.To) {
			return nil, fmt.Errorf("%w: kickoff range requires from before to", ErrInvalidInput)
		}
		items, err := s.matches.ListByKickoffRange(ctx, filter.From, filter.To, limit)
		if err != nil {
			return nil, fmt.Errorf("list matches by kickoff range: %w", err)
		}
		return items, nil
	}

	items, err := s.matches.ListActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Counts(ctx context.Context) (map[match.State]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Counts")
	defer span.End()

	counts, err := s.matches.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("count matches by state: %w", err)
	}
	return counts, nil
}

// AdminMatchUpdateInput patches individual fields; nil fields are left
// untouched.
type AdminMatchUpdateInput struct {
	AllowSync *bool
	AdminNote *string
	State     *string
	Score     *string
}

// AdminUpdate lets an operator correct a record and, via AllowSync,
// fence it off from future provider syncs.
func (s *MatchService) AdminUpdate(ctx context.Context, externalID string, input AdminMatchUpdateInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AdminUpdate")
	defer span.End()

	current, err := s.Get(ctx, externalID)
	if err != nil {
		return match.Match{}, err
	}

	edited := false
	if input.AllowSync != nil && current.AllowSync != *input.AllowSync {
		current.AllowSync = *input.AllowSync
		edited = true
	}
	if input.AdminNote != nil {
		current.AdminNote = strings.TrimSpace(*input.AdminNote)
		edited = true
	}
	if input.State != nil {
		parsed, ok := match.ParseState(*input.State)
		if !ok {
			return match.Match{}, fmt.Errorf("%w: unknown match state %q", ErrInvalidInput, *input.State)
		}
		if current.State != parsed {
			current.State = parsed
			edited = true
		}
	}
	if input.Score != nil && current.Score != strings.TrimSpace(*input.Score) {
		current.Score = strings.TrimSpace(*input.Score)
		edited = true
	}

	if !edited {
		return current, nil
	}

	current.DataSource = match.SourceAdminEdit
	current.UpdatedAt = s.now().UTC()

	updated, err := s.matches.Update(ctx, current)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, externalID)
		}
		return match.Match{}, fmt.Errorf("update match id=%s: %w", externalID, err)
	}

	s.logger.InfoContext(ctx, "match edited by admin",
		"external_id", externalID,
		"allow_sync", updated.AllowSync,
	)
	return updated, nil
}

func (s *MatchService) SoftDelete(ctx context.Context, externalID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SoftDelete")
	defer span.End()

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if err := s.matches.SoftDelete(ctx, externalID); err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return fmt.Errorf("%w: match id=%s", ErrNotFound, externalID)
		}
		return fmt.Errorf("soft delete match id=%s: %w", externalID, err)
	}
	return nil
}

func (s *MatchService) HardDelete(ctx context.Context, externalID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.HardDelete")
	defer span.End()

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if err := s.matches.HardDelete(ctx, externalID); err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return fmt.Errorf("%w: match id=%s", ErrNotFound, externalID)
		}
		return fmt.Errorf("hard delete match id=%s: %w", externalID, err)
	}

	s.logger.WarnContext(ctx, "match permanently deleted", "external_id", externalID)
	return nil
}
