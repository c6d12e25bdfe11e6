package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/match-center/internal/domain/match"
)

type matchTableModel struct {
	ID             int64      `db:"id"`
	ExternalID     string     `db:"external_id"`
	SportID        int64      `db:"sport_id"`
	State          string     `db:"state"`
	League         string     `db:"league"`
	HomeTeam       string     `db:"home_team"`
	AwayTeam       string     `db:"away_team"`
	AltHomeTeam    *string    `db:"alt_home_team"`
	AltAwayTeam    *string    `db:"alt_away_team"`
	KickoffAt      time.Time  `db:"kickoff_at"`
	Score          string     `db:"score"`
	ScoreBreakdown *string    `db:"score_breakdown"`
	Timer          *string    `db:"timer"`
	Stats          *string    `db:"stats"`
	Bet365ID       string     `db:"bet365_id"`
	Round          string     `db:"round"`
	RecordStatus   string     `db:"record_status"`
	AllowSync      bool       `db:"allow_sync"`
	AdminNote      string     `db:"admin_note"`
	DataSource     string     `db:"data_source"`
	LastSyncedAt   *time.Time `db:"last_synced_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// matchInsertModel mirrors matchTableModel without the generated columns.
type matchInsertModel struct {
	ExternalID     string     `db:"external_id"`
	SportID        int64      `db:"sport_id"`
	State          string     `db:"state"`
	League         string     `db:"league"`
	HomeTeam       string     `db:"home_team"`
	AwayTeam       string     `db:"away_team"`
	AltHomeTeam    *string    `db:"alt_home_team"`
	AltAwayTeam    *string    `db:"alt_away_team"`
	KickoffAt      time.Time  `db:"kickoff_at"`
	Score          string     `db:"score"`
	ScoreBreakdown *string    `db:"score_breakdown"`
	Timer          *string    `db:"timer"`
	Stats          *string    `db:"stats"`
	Bet365ID       string     `db:"bet365_id"`
	Round          string     `db:"round"`
	RecordStatus   string     `db:"record_status"`
	AllowSync      bool       `db:"allow_sync"`
	AdminNote      string     `db:"admin_note"`
	DataSource     string     `db:"data_source"`
	LastSyncedAt   *time.Time `db:"last_synced_at"`
}

func matchInsertModelFromDomain(item match.Match) (matchInsertModel, error) {
	league, err := jsonColumn(item.League)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode league: %w", err)
	}
	home, err := jsonColumn(item.Home)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode home team: %w", err)
	}
	away, err := jsonColumn(item.Away)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode away team: %w", err)
	}

	model := matchInsertModel{
		ExternalID:   item.ExternalID,
		SportID:      item.SportID,
		State:        string(item.State),
		League:       league,
		HomeTeam:     home,
		AwayTeam:     away,
		KickoffAt:    item.KickoffAt.UTC(),
		Score:        item.Score,
		Bet365ID:     item.Bet365ID,
		Round:        item.Round,
		RecordStatus: string(item.RecordStatus),
		AllowSync:    item.AllowSync,
		AdminNote:    item.AdminNote,
		DataSource:   item.DataSource,
		LastSyncedAt: item.LastSyncedAt,
	}

	if item.AltHome != nil {
		if model.AltHomeTeam, err = nullableJSONColumn(item.AltHome); err != nil {
			return matchInsertModel{}, fmt.Errorf("encode alt home team: %w", err)
		}
	}
	if item.AltAway != nil {
		if model.AltAwayTeam, err = nullableJSONColumn(item.AltAway); err != nil {
			return matchInsertModel{}, fmt.Errorf("encode alt away team: %w", err)
		}
	}
	if len(item.ScoreBreakdown) > 0 {
		if model.ScoreBreakdown, err = nullableJSONColumn(item.ScoreBreakdown); err != nil {
			return matchInsertModel{}, fmt.Errorf("encode score breakdown: %w", err)
		}
	}
	if item.Timer != nil {
		if model.Timer, err = nullableJSONColumn(item.Timer); err != nil {
			return matchInsertModel{}, fmt.Errorf("encode timer: %w", err)
		}
	}
	if item.Stats != nil {
		if model.Stats, err = nullableJSONColumn(item.Stats); err != nil {
			return matchInsertModel{}, fmt.Errorf("encode stats: %w", err)
		}
	}

	return model, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	out := match.Match{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		SportID:      m.SportID,
		State:        match.State(m.State),
		KickoffAt:    m.KickoffAt,
		Score:        m.Score,
		Bet365ID:     m.Bet365ID,
		Round:        m.Round,
		RecordStatus: match.RecordStatus(m.RecordStatus),
		AllowSync:    m.AllowSync,
		AdminNote:    m.AdminNote,
		DataSource:   m.DataSource,
		LastSyncedAt: m.LastSyncedAt,
		DeletedAt:    m.DeletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if err := sonic.UnmarshalString(m.League, &out.League); err != nil {
		return match.Match{}, fmt.Errorf("decode league: %w", err)
	}
	if err := sonic.UnmarshalString(m.HomeTeam, &out.Home); err != nil {
		return match.Match{}, fmt.Errorf("decode home team: %w", err)
	}
	if err := sonic.UnmarshalString(m.AwayTeam, &out.Away); err != nil {
		return match.Match{}, fmt.Errorf("decode away team: %w", err)
	}
	if m.AltHomeTeam != nil {
		out.AltHome = &match.Team{}
		if err := sonic.UnmarshalString(*m.AltHomeTeam, out.AltHome); err != nil {
			return match.Match{}, fmt.Errorf("decode alt home team: %w", err)
		}
	}
	if m.AltAwayTeam != nil {
		out.AltAway = &match.Team{}
		if err := sonic.UnmarshalString(*m.AltAwayTeam, out.AltAway); err != nil {
			return match.Match{}, fmt.Errorf("decode alt away team: %w", err)
		}
	}
	if m.ScoreBreakdown != nil {
		if err := sonic.UnmarshalString(*m.ScoreBreakdown, &out.ScoreBreakdown); err != nil {
			return match.Match{}, fmt.Errorf("decode score breakdown: %w", err)
		}
	}
	if m.Timer != nil {
		out.Timer = &match.Timer{}
		if err := sonic.UnmarshalString(*m.Timer, out.Timer); err != nil {
			return match.Match{}, fmt.Errorf("decode timer: %w", err)
		}
	}
	if m.Stats != nil {
		out.Stats = &match.Stats{}
		if err := sonic.UnmarshalString(*m.Stats, out.Stats); err != nil {
			return match.Match{}, fmt.Errorf("decode stats: %w", err)
		}
	}

	return out, nil
}

func jsonColumn(value any) (string, error) {
	raw, err := sonic.MarshalString(value)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func nullableJSONColumn(value any) (*string, error) {
	raw, err := sonic.MarshalString(value)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}
