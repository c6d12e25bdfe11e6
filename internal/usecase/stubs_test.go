package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pitchside/match-center/internal/domain/match"
)

type stubMatchRepository struct {
	mu           sync.Mutex
	byExternalID map[string]match.Match
	nextID       int64

	failGetFor    map[string]error
	failCreateFor map[string]error
	failUpdateFor map[string]error
}

func newStubMatchRepository(seed ...match.Match) *stubMatchRepository {
	repo := &stubMatchRepository{byExternalID: map[string]match.Match{}}
	for _, item := range seed {
		repo.nextID++
		item.ID = repo.nextID
		repo.byExternalID[item.ExternalID] = item
	}
	return repo
}

func (r *stubMatchRepository) get(externalID string) (match.Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.byExternalID[externalID]
	return item, ok
}

func (r *stubMatchRepository) GetByExternalID(_ context.Context, externalID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failGetFor[externalID]; ok {
		return match.Match{}, false, err
	}
	item, ok := r.byExternalID[externalID]
	if !ok || item.RecordStatus == match.RecordStatusPermanentlyDeleted {
		return match.Match{}, false, nil
	}
	return item, true, nil
}

func (r *stubMatchRepository) sorted() []match.Match {
	items := make([]match.Match, 0, len(r.byExternalID))
	for _, item := range r.byExternalID {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ExternalID < items[j].ExternalID })
	return items
}

func (r *stubMatchRepository) ListByState(_ context.Context, state match.State, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0)
	for _, item := range r.sorted() {
		if item.RecordStatus == match.RecordStatusActive && item.State == state {
			out = append(out, item)
		}
	}
	return clip(out, limit), nil
}

func (r *stubMatchRepository) ListByKickoffRange(_ context.Context, from, to time.Time, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0)
	for _, item := range r.sorted() {
		if item.RecordStatus != match.RecordStatusActive {
			continue
		}
		if !item.KickoffAt.Before(from) && item.KickoffAt.Before(to) {
			out = append(out, item)
		}
	}
	return clip(out, limit), nil
}

func (r *stubMatchRepository) ListIncomplete(_ context.Context, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0)
	for _, item := range r.sorted() {
		if item.RecordStatus == match.RecordStatusActive && item.IsIncomplete() {
			out = append(out, item)
		}
	}
	return clip(out, limit), nil
}

func (r *stubMatchRepository) ListActive(_ context.Context, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0)
	for _, item := range r.sorted() {
		if item.RecordStatus == match.RecordStatusActive {
			out = append(out, item)
		}
	}
	return clip(out, limit), nil
}

func (r *stubMatchRepository) CountByState(_ context.Context) (map[match.State]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[match.State]int{}
	for _, item := range r.byExternalID {
		if item.RecordStatus == match.RecordStatusActive {
			counts[item.State]++
		}
	}
	return counts, nil
}

func (r *stubMatchRepository) Create(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failCreateFor[item.ExternalID]; ok {
		return match.Match{}, err
	}
	if _, exists := r.byExternalID[item.ExternalID]; exists {
		return match.Match{}, match.ErrDuplicateExternalID
	}
	r.nextID++
	item.ID = r.nextID
	r.byExternalID[item.ExternalID] = item
	return item, nil
}

func (r *stubMatchRepository) Update(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failUpdateFor[item.ExternalID]; ok {
		return match.Match{}, err
	}
	if _, exists := r.byExternalID[item.ExternalID]; !exists {
		return match.Match{}, match.ErrNotFound
	}
	r.byExternalID[item.ExternalID] = item
	return item, nil
}

func (r *stubMatchRepository) SoftDelete(_ context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.byExternalID[externalID]
	if !ok {
		return match.ErrNotFound
	}
	item.RecordStatus = match.RecordStatusDeleted
	r.byExternalID[externalID] = item
	return nil
}

func (r *stubMatchRepository) HardDelete(_ context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byExternalID[externalID]; !ok {
		return match.ErrNotFound
	}
	delete(r.byExternalID, externalID)
	return nil
}

func clip(items []match.Match, limit int) []match.Match {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

type stubRemoteProvider struct {
	fetchByState func(ctx context.Context, kind MatchFeedKind, page int, day string) (RemotePage, error)
	fetchDetail  func(ctx context.Context, externalID string) (RemoteMatch, bool, error)
}

func (p *stubRemoteProvider) FetchByState(ctx context.Context, kind MatchFeedKind, page int, day string) (RemotePage, error) {
	if p.fetchByState == nil {
		return RemotePage{}, nil
	}
	return p.fetchByState(ctx, kind, page, day)
}

func (p *stubRemoteProvider) FetchDetail(ctx context.Context, externalID string) (RemoteMatch, bool, error) {
	if p.fetchDetail == nil {
		return RemoteMatch{}, false, nil
	}
	return p.fetchDetail(ctx, externalID)
}

func pairOf(home, away string) *match.StatPair {
	pair := match.StatPair{home, away}
	return &pair
}
