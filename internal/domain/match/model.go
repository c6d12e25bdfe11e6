package match

import (
	"strconv"
	"strings"
	"time"
)

// State is the lifecycle state of a match as reported by the provider.
type State string

const (
	StateScheduled State = "scheduled"
	StateInPlay    State = "inplay"
	StateHalftime  State = "halftime"
	StateFinished  State = "finished"
	StatePostponed State = "postponed"
	StateCancelled State = "cancelled"
)

// Provider time_status codes.
const (
	wireCodeScheduled = "0"
	wireCodeInPlay    = "1"
	wireCodeHalftime  = "2"
	wireCodeFinished  = "3"
	wireCodePostponed = "4"
	wireCodeCancelled = "5"
)

func StateFromWireCode(code string) (State, bool) {
	switch strings.TrimSpace(code) {
	case wireCodeScheduled:
		return StateScheduled, true
	case wireCodeInPlay:
		return StateInPlay, true
	case wireCodeHalftime:
		return StateHalftime, true
	case wireCodeFinished:
		return StateFinished, true
	case wireCodePostponed:
		return StatePostponed, true
	case wireCodeCancelled:
		return StateCancelled, true
	default:
		return "", false
	}
}

func ParseState(value string) (State, bool) {
	switch State(strings.ToLower(strings.TrimSpace(value))) {
	case StateScheduled:
		return StateScheduled, true
	case StateInPlay:
		return StateInPlay, true
	case StateHalftime:
		return StateHalftime, true
	case StateFinished:
		return StateFinished, true
	case StatePostponed:
		return StatePostponed, true
	case StateCancelled:
		return StateCancelled, true
	default:
		return "", false
	}
}

func (s State) IsLive() bool {
	return s == StateInPlay || s == StateHalftime
}

func (s State) IsFinal() bool {
	return s == StateFinished || s == StateCancelled
}

// RecordStatus tags the local record's deletion state.
type RecordStatus string

const (
	RecordStatusActive             RecordStatus = "active"
	RecordStatusDeleted            RecordStatus = "deleted"
	RecordStatusPermanentlyDeleted RecordStatus = "permanently_deleted"
)

// Provenance tags written into DataSource by the sync flows.
const (
	SourceFullSync      = "full_sync"
	SourceSelectiveSync = "selective_sync"
	SourceResync        = "resync"
	SourceAdminEdit     = "admin_edit"
)

// StatPair holds one metric as [home, away], in provider string form.
type StatPair [2]string

func (p *StatPair) Home() string {
	if p == nil {
		return ""
	}
	return p[0]
}

func (p *StatPair) Away() string {
	if p == nil {
		return ""
	}
	return p[1]
}

// HomeValue and AwayValue coerce an absent or unparseable side to 0.
// Merge logic never calls these; they exist for analytics reads.
func (p *StatPair) HomeValue() float64 {
	return parseStatValue(p.Home())
}

func (p *StatPair) AwayValue() float64 {
	return parseStatValue(p.Away())
}

func (p *StatPair) Total() float64 {
	return p.HomeValue() + p.AwayValue()
}

func parseStatValue(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

// Stats is the provider's paired-metric bag. A nil pair means the provider
// never reported that metric; pairs are not zero-filled on merge.
type Stats struct {
	Attacks          *StatPair `json:"attacks,omitempty"`
	DangerousAttacks *StatPair `json:"dangerous_attacks,omitempty"`
	BallSafe         *StatPair `json:"ball_safe,omitempty"`
	PassingAccuracy  *StatPair `json:"passing_accuracy,omitempty"`
	KeyPasses        *StatPair `json:"key_passes,omitempty"`
	Crosses          *StatPair `json:"crosses,omitempty"`
	CrossingAccuracy *StatPair `json:"crossing_accuracy,omitempty"`
	PossessionRT     *StatPair `json:"possession_rt,omitempty"`
	GoalAttempts     *StatPair `json:"goalattempts,omitempty"`
	OnTarget         *StatPair `json:"on_target,omitempty"`
	OffTarget        *StatPair `json:"off_target,omitempty"`
	ShotsBlocked     *StatPair `json:"shots_blocked,omitempty"`
	Saves            *StatPair `json:"saves,omitempty"`
	Goals            *StatPair `json:"goals,omitempty"`
	XG               *StatPair `json:"xg,omitempty"`
	Corners          *StatPair `json:"corners,omitempty"`
	CornerF          *StatPair `json:"corner_f,omitempty"`
	CornerH          *StatPair `json:"corner_h,omitempty"`
	YellowCards      *StatPair `json:"yellowcards,omitempty"`
	RedCards         *StatPair `json:"redcards,omitempty"`
	YellowRedCards   *StatPair `json:"yellowred_cards,omitempty"`
	Fouls            *StatPair `json:"fouls,omitempty"`
	Offsides         *StatPair `json:"offsides,omitempty"`
	Penalties        *StatPair `json:"penalties,omitempty"`
	Injuries         *StatPair `json:"injuries,omitempty"`
	Substitutions    *StatPair `json:"substitutions,omitempty"`
	ActionAreas      *StatPair `json:"action_areas,omitempty"`
}

func (s *Stats) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Attacks == nil && s.DangerousAttacks == nil && s.BallSafe == nil &&
		s.PassingAccuracy == nil && s.KeyPasses == nil && s.Crosses == nil &&
		s.CrossingAccuracy == nil && s.PossessionRT == nil && s.GoalAttempts == nil &&
		s.OnTarget == nil && s.OffTarget == nil && s.ShotsBlocked == nil &&
		s.Saves == nil && s.Goals == nil && s.XG == nil && s.Corners == nil &&
		s.CornerF == nil && s.CornerH == nil && s.YellowCards == nil &&
		s.RedCards == nil && s.YellowRedCards == nil && s.Fouls == nil &&
		s.Offsides == nil && s.Penalties == nil && s.Injuries == nil &&
		s.Substitutions == nil && s.ActionAreas == nil
}

// League identifies the competition a match belongs to.
type League struct {
	ExternalID  string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	CountryCode string `json:"cc,omitempty"`
}

// Team is one side of a match.
type Team struct {
	ExternalID  string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	ImageID     string `json:"image_id,omitempty"`
	CountryCode string `json:"cc,omitempty"`
}

// PeriodScore is the score of one period inside the breakdown map
// (keyed by period, e.g. "1" and "2").
type PeriodScore struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Timer is the live clock of an in-play match.
type Timer struct {
	Minutes   int    `json:"tm"`
	Seconds   int    `json:"ts"`
	TimerType string `json:"tt,omitempty"`
	AddedTime int    `json:"ta"`
	MatchDay  int    `json:"md"`
}

// Match is the authoritative local record for one provider match.
type Match struct {
	ID             int64
	ExternalID     string
	SportID        int64
	State          State
	League         League
	Home           Team
	Away           Team
	AltHome        *Team
	AltAway        *Team
	KickoffAt      time.Time
	Score          string
	ScoreBreakdown map[string]PeriodScore
	Timer          *Timer
	Stats          *Stats
	Bet365ID       string
	Round          string
	RecordStatus   RecordStatus
	AllowSync      bool
	AdminNote      string
	DataSource     string
	LastSyncedAt   *time.Time
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsIncomplete reports whether the record should be picked up by the
// incomplete-data resync flow: no stats at all, or xg/possession missing.
func (m Match) IsIncomplete() bool {
	if m.Stats.IsEmpty() {
		return true
	}
	return m.Stats.XG == nil || m.Stats.PossessionRT == nil
}
