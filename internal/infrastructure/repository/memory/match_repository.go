package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pitchside/match-center/internal/domain/match"
)

// MatchRepository is the in-process store used when no database URL is
// configured. It mirrors the Postgres repository's visibility rules.
type MatchRepository struct {
	mu           sync.RWMutex
	byExternalID map[string]match.Match
	nextID       int64
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	repo := &MatchRepository{byExternalID: make(map[string]match.Match, len(seed))}
	for _, item := range seed {
		repo.nextID++
		item.ID = repo.nextID
		repo.byExternalID[item.ExternalID] = item
	}
	return repo
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byExternalID[externalID]
	if !ok {
		return match.Match{}, false, nil
	}
	return item, true, nil
}

func (r *MatchRepository) ListByState(_ context.Context, state match.State, limit int) ([]match.Match, error) {
	return r.filtered(limit, func(item match.Match) bool {
		return item.RecordStatus == match.RecordStatusActive && item.State == state
	}), nil
}

func (r *MatchRepository) ListByKickoffRange(_ context.Context, from, to time.Time, limit int) ([]match.Match, error) {
	return r.filtered(limit, func(item match.Match) bool {
		return item.RecordStatus == match.RecordStatusActive &&
			!item.KickoffAt.Before(from) && item.KickoffAt.Before(to)
	}), nil
}

func (r *MatchRepository) ListIncomplete(_ context.Context, limit int) ([]match.Match, error) {
	return r.filtered(limit, func(item match.Match) bool {
		return item.RecordStatus == match.RecordStatusActive && item.IsIncomplete()
	}), nil
}

func (r *MatchRepository) ListActive(_ context.Context, limit int) ([]match.Match, error) {
	return r.filtered(limit, func(item match.Match) bool {
		return item.RecordStatus == match.RecordStatusActive
	}), nil
}

func (r *MatchRepository) filtered(limit int, keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.byExternalID {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MatchRepository) CountByState(_ context.Context) (map[match.State]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[match.State]int)
	for _, item := range r.byExternalID {
		if item.RecordStatus == match.RecordStatusActive {
			counts[item.State]++
		}
	}
	return counts, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExternalID[item.ExternalID]; exists {
		return match.Match{}, match.ErrDuplicateExternalID
	}

	now := time.Now().UTC()
	r.nextID++
	item.ID = r.nextID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.byExternalID[item.ExternalID] = item
	return item, nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byExternalID[item.ExternalID]
	if !exists {
		return match.Match{}, match.ErrNotFound
	}

	item.ID = current.ID
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	r.byExternalID[item.ExternalID] = item
	return item, nil
}

func (r *MatchRepository) SoftDelete(_ context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.byExternalID[externalID]
	if !exists || item.RecordStatus != match.RecordStatusActive {
		return match.ErrNotFound
	}

	now := time.Now().UTC()
	item.RecordStatus = match.RecordStatusDeleted
	item.DeletedAt = &now
	item.UpdatedAt = now
	r.byExternalID[externalID] = item
	return nil
}

func (r *MatchRepository) HardDelete(_ context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExternalID[externalID]; !exists {
		return match.ErrNotFound
	}
	delete(r.byExternalID, externalID)
	return nil
}
