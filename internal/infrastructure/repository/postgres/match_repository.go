package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/match-center/internal/domain/match"
	qb "github.com/pitchside/match-center/internal/platform/querybuilder"
)

// incompleteStatsPredicate mirrors match.Match.IsIncomplete for SQL
// listings. The literal ? here is the jsonb key-exists operator, not a
// bind marker.
const incompleteStatsPredicate = "(stats IS NULL OR stats = '{}'::jsonb OR NOT (stats ? 'xg') OR NOT (stats ? 'possession_rt'))"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match external_id=%s: %w", externalID, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("map match external_id=%s: %w", externalID, err)
	}
	return item, true, nil
}

func (r *MatchRepository) ListByState(ctx context.Context, state match.State, limit int) ([]match.Match, error) {
	return r.list(ctx, limit,
		qb.Eq("record_status", string(match.RecordStatusActive)),
		qb.Eq("state", string(state)),
	)
}

func (r *MatchRepository) ListByKickoffRange(ctx context.Context, from, to time.Time, limit int) ([]match.Match, error) {
	return r.list(ctx, limit,
		qb.Eq("record_status", string(match.RecordStatusActive)),
		qb.Gte("kickoff_at", from.UTC()),
		qb.Lt("kickoff_at", to.UTC()),
	)
}

func (r *MatchRepository) ListIncomplete(ctx context.Context, limit int) ([]match.Match, error) {
	return r.list(ctx, limit,
		qb.Eq("record_status", string(match.RecordStatusActive)),
		qb.Expr(incompleteStatsPredicate),
	)
}

func (r *MatchRepository) ListActive(ctx context.Context, limit int) ([]match.Match, error) {
	return r.list(ctx, limit,
		qb.Eq("record_status", string(match.RecordStatusActive)),
	)
}

func (r *MatchRepository) list(ctx context.Context, limit int, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "external_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("map match external_id=%s: %w", row.ExternalID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) CountByState(ctx context.Context) (map[match.State]int, error) {
	query, args, err := qb.Select("state", "COUNT(*) AS total").From("matches").
		Where(qb.Eq("record_status", string(match.RecordStatusActive))).
		GroupBy("state").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count matches query: %w", err)
	}

	var rows []struct {
		State string `db:"state"`
		Total int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count matches by state: %w", err)
	}

	counts := make(map[match.State]int, len(rows))
	for _, row := range rows {
		counts[match.State(row.State)] = row.Total
	}
	return counts, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	model, err := matchInsertModelFromDomain(item)
	if err != nil {
		return match.Match{}, fmt.Errorf("encode match external_id=%s: %w", item.ExternalID, err)
	}

	query, args, err := qb.InsertModel("matches", model, "RETURNING id, created_at, updated_at")
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	var generated struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &generated, query, args...); err != nil {
		if isUniqueViolation(err) {
			return match.Match{}, match.ErrDuplicateExternalID
		}
		return match.Match{}, fmt.Errorf("insert match external_id=%s: %w", item.ExternalID, err)
	}

	item.ID = generated.ID
	item.CreatedAt = generated.CreatedAt
	item.UpdatedAt = generated.UpdatedAt
	return item, nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) (match.Match, error) {
	model, err := matchInsertModelFromDomain(item)
	if err != nil {
		return match.Match{}, fmt.Errorf("encode match external_id=%s: %w", item.ExternalID, err)
	}

	query, args, err := qb.Update("matches").
		Set("sport_id", model.SportID).
		Set("state", model.State).
		Set("league", model.League).
		Set("home_team", model.HomeTeam).
		Set("away_team", model.AwayTeam).
		Set("alt_home_team", model.AltHomeTeam).
		Set("alt_away_team", model.AltAwayTeam).
		Set("kickoff_at", model.KickoffAt).
		Set("score", model.Score).
		Set("score_breakdown", model.ScoreBreakdown).
		Set("timer", model.Timer).
		Set("stats", model.Stats).
		Set("bet365_id", model.Bet365ID).
		Set("round", model.Round).
		Set("record_status", model.RecordStatus).
		Set("allow_sync", model.AllowSync).
		Set("admin_note", model.AdminNote).
		Set("data_source", model.DataSource).
		Set("last_synced_at", model.LastSyncedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("external_id", item.ExternalID)).
		Suffix("RETURNING id, updated_at").
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build update match query: %w", err)
	}

	var generated struct {
		ID        int64     `db:"id"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &generated, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, match.ErrNotFound
		}
		return match.Match{}, fmt.Errorf("update match external_id=%s: %w", item.ExternalID, err)
	}

	item.ID = generated.ID
	item.UpdatedAt = generated.UpdatedAt
	return item, nil
}

func (r *MatchRepository) SoftDelete(ctx context.Context, externalID string) error {
	query, args, err := qb.Update("matches").
		Set("record_status", string(match.RecordStatusDeleted)).
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("external_id", externalID),
			qb.Eq("record_status", string(match.RecordStatusActive)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("soft delete match external_id=%s: %w", externalID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete match external_id=%s rows affected: %w", externalID, err)
	}
	if affected == 0 {
		return match.ErrNotFound
	}
	return nil
}

func (r *MatchRepository) HardDelete(ctx context.Context, externalID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM matches WHERE external_id = $1", externalID)
	if err != nil {
		return fmt.Errorf("hard delete match external_id=%s: %w", externalID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("hard delete match external_id=%s rows affected: %w", externalID, err)
	}
	if affected == 0 {
		return match.ErrNotFound
	}
	return nil
}
