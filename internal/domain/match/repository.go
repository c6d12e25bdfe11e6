package match

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateExternalID = errors.New("duplicate external id")
	ErrNotFound            = errors.New("match not found")
)

// Repository is the local match store contract. Read operations exclude
// soft- and hard-deleted records and return kickoff-ascending order.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Match, bool, error)
	ListByState(ctx context.Context, state State, limit int) ([]Match, error)
	ListByKickoffRange(ctx context.Context, from, to time.Time, limit int) ([]Match, error)
	ListIncomplete(ctx context.Context, limit int) ([]Match, error)
	ListActive(ctx context.Context, limit int) ([]Match, error)
	CountByState(ctx context.Context) (map[State]int, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, item Match) (Match, error)
	SoftDelete(ctx context.Context, externalID string) error
	HardDelete(ctx context.Context, externalID string) error
}
