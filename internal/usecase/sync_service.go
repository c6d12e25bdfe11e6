package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
)

// MatchFeedKind selects one of the provider's event feeds.
type MatchFeedKind string

const (
	MatchFeedUpcoming MatchFeedKind = "upcoming"
	MatchFeedInPlay   MatchFeedKind = "inplay"
	MatchFeedEnded    MatchFeedKind = "ended"
)

func ParseMatchFeedKind(value string) (MatchFeedKind, bool) {
	switch MatchFeedKind(strings.ToLower(strings.TrimSpace(value))) {
	case MatchFeedUpcoming:
		return MatchFeedUpcoming, true
	case MatchFeedInPlay:
		return MatchFeedInPlay, true
	case MatchFeedEnded:
		return MatchFeedEnded, true
	default:
		return "", false
	}
}

// RemoteMatch is one provider record, already mapped out of the wire
// envelope but not yet reconciled against local state.
type RemoteMatch struct {
	ExternalID     string
	SportID        int64
	State          match.State
	League         match.League
	Home           match.Team
	Away           match.Team
	AltHome        *match.Team
	AltAway        *match.Team
	KickoffAt      time.Time
	Score          string
	ScoreBreakdown map[string]match.PeriodScore
	Timer          *match.Timer
	Stats          *match.Stats
	Bet365ID       string
	Round          string
}

type RemotePage struct {
	Matches []RemoteMatch
	Page    int
	PerPage int
	Total   int
}

type RemoteMatchProvider interface {
	FetchByState(ctx context.Context, kind MatchFeedKind, page int, day string) (RemotePage, error)
	FetchDetail(ctx context.Context, externalID string) (RemoteMatch, bool, error)
}

type SyncOutcome string

const (
	SyncOutcomeCreated SyncOutcome = "created"
	SyncOutcomeUpdated SyncOutcome = "updated"
	SyncOutcomeSkipped SyncOutcome = "skipped"
	SyncOutcomeError   SyncOutcome = "error"
)

const (
	skipReasonProtected = "sync protection active"
	skipReasonNotFound  = "remote record not found"
	skipReasonNoChange  = "no material change detected"
	skipReasonMissingID = "invalid remote record: missing event id"
	skipReasonBadState  = "invalid remote record: unknown lifecycle state"
	skipReasonNoTeams   = "invalid remote record: missing team data"
)

type SyncDetail struct {
	ExternalID string      `json:"external_id"`
	Outcome    SyncOutcome `json:"outcome"`
	Reason     string      `json:"reason,omitempty"`
}

type SyncReport struct {
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Skipped int          `json:"skipped"`
	Errors  int          `json:"errors"`
	Details []SyncDetail `json:"details,omitempty"`
}

func (r *SyncReport) add(detail SyncDetail) {
	switch detail.Outcome {
	case SyncOutcomeCreated:
		r.Created++
	case SyncOutcomeUpdated:
		r.Updated++
	case SyncOutcomeSkipped:
		r.Skipped++
	default:
		r.Errors++
	}
	r.Details = append(r.Details, detail)
}

func (r *SyncReport) merge(other SyncReport) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Errors += other.Errors
	r.Details = append(r.Details, other.Details...)
}

func (r SyncReport) processed() int {
	return r.Created + r.Updated + r.Skipped + r.Errors
}

// FullSyncReport aggregates the three feeds pulled by SyncAll. The
// upcoming report covers both today's and tomorrow's fixture lists.
type FullSyncReport struct {
	Upcoming   SyncReport `json:"upcoming"`
	Ended      SyncReport `json:"ended"`
	Total      int        `json:"total"`
	PartErrors []string   `json:"part_errors,omitempty"`
}

type MatchSyncConfig struct {
	Enabled         bool
	MaxPages        int
	ResyncBatchSize int
	ResyncWorkers   int
}

const (
	maxFeedPages           = 5
	defaultResyncBatchSize = 100
	defaultResyncWorkers   = 8
)

func normalizeMatchSyncConfig(cfg MatchSyncConfig) MatchSyncConfig {
	if cfg.MaxPages < 1 || cfg.MaxPages > maxFeedPages {
		cfg.MaxPages = maxFeedPages
	}
	if cfg.ResyncBatchSize < 1 {
		cfg.ResyncBatchSize = defaultResyncBatchSize
	}
	if cfg.ResyncWorkers < 1 {
		cfg.ResyncWorkers = defaultResyncWorkers
	}
	return cfg
}

// MatchSyncService reconciles provider feeds into the local match store.
type MatchSyncService struct {
	provider RemoteMatchProvider
	matches  match.Repository
	cfg      MatchSyncConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchSyncService(
	provider RemoteMatchProvider,
	matches match.Repository,
	cfg MatchSyncConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchSyncService{
		provider: provider,
		matches:  matches,
		cfg:      normalizeMatchSyncConfig(cfg),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MatchSyncService) ready(ctx context.Context, operation string) error {
	if !s.cfg.Enabled {
		s.logger.WarnContext(ctx, "skip "+operation+": match data sync is disabled")
		return fmt.Errorf("%w: match data sync is disabled (BETSAPI_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil || s.matches == nil {
		s.logger.WarnContext(ctx,
			"skip "+operation+": match data provider is not fully configured",
			"provider_nil", s.provider == nil,
			"repo_nil", s.matches == nil,
		)
		return fmt.Errorf("%w: match data provider is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}

// SyncByKind pulls one feed and reconciles every row it returns. A
// failed first page aborts the whole batch; later pages degrade to a
// partial batch.
func (s *MatchSyncService) SyncByKind(ctx context.Context, kind MatchFeedKind, day string) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncByKind")
	defer span.End()

	if err := s.ready(ctx, "feed sync"); err != nil {
		return SyncReport{}, err
	}
	if _, ok := ParseMatchFeedKind(string(kind)); !ok {
		return SyncReport{}, fmt.Errorf("%w: unknown match feed kind %q", ErrInvalidInput, kind)
	}

	remotes, err := s.fetchFeed(ctx, kind, day)
	if err != nil {
		return SyncReport{}, err
	}

	report := s.reconcileBatch(ctx, remotes, reconcileOptions{source: match.SourceFullSync})
	s.logger.InfoContext(ctx, "feed sync finished",
		"kind", kind,
		"day", day,
		"fetched", len(remotes),
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", report.Errors,
	)
	return report, nil
}

// SyncAll runs the daily pull: today's and tomorrow's upcoming fixtures
// plus today's ended fixtures, concurrently. A failed part is recorded
// on the report and does not block the others.
func (s *MatchSyncService) SyncAll(ctx context.Context) (FullSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncAll")
	defer span.End()

	if err := s.ready(ctx, "full sync"); err != nil {
		return FullSyncReport{}, err
	}

	today := s.now().UTC().Format("20060102")
	tomorrow := s.now().UTC().Add(24 * time.Hour).Format("20060102")

	type part struct {
		name   string
		kind   MatchFeedKind
		report SyncReport
		err    error
	}
	parts := []part{
		{name: "upcoming today", kind: MatchFeedUpcoming},
		{name: "upcoming tomorrow", kind: MatchFeedUpcoming},
		{name: "ended today", kind: MatchFeedEnded},
	}
	days := []string{today, tomorrow, today}

	runner := pool.NewWithResults[part]()
	for i := range parts {
		i := i
		runner.Go(func() part {
			p := parts[i]
			p.report, p.err = s.SyncByKind(ctx, p.kind, days[i])
			return p
		})
	}

	var out FullSyncReport
	for _, p := range runner.Wait() {
		if p.err != nil {
			s.logger.ErrorContext(ctx, "full sync part failed", "part", p.name, "error", p.err)
			out.PartErrors = append(out.PartErrors, fmt.Sprintf("%s: %v", p.name, p.err))
			continue
		}
		switch p.kind {
		case MatchFeedEnded:
			out.Ended.merge(p.report)
		default:
			out.Upcoming.merge(p.report)
		}
	}
	out.Total = out.Upcoming.processed() + out.Ended.processed()

	if len(out.PartErrors) == len(parts) {
		return out, fmt.Errorf("%w: all full sync parts failed", ErrRemoteFetch)
	}
	return out, nil
}

func (s *MatchSyncService) fetchFeed(ctx context.Context, kind MatchFeedKind, day string) ([]RemoteMatch, error) {
	first, err := s.provider.FetchByState(ctx, kind, 1, day)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed page=1: %w", kind, err)
	}

	out := first.Matches
	if kind == MatchFeedInPlay {
		return out, nil
	}

	perPage := first.PerPage
	total := first.Total
	for page := 2; page <= s.cfg.MaxPages; page++ {
		if perPage <= 0 || (page-1)*perPage >= total {
			break
		}
		next, err := s.provider.FetchByState(ctx, kind, page, day)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WarnContext(ctx, "feed page fetch failed, continuing with partial batch",
				"kind", kind,
				"day", day,
				"page", page,
				"error", err,
			)
			break
		}
		if len(next.Matches) == 0 {
			break
		}
		out = append(out, next.Matches...)
		if next.PerPage > 0 {
			perPage = next.PerPage
		}
		if next.Total > 0 {
			total = next.Total
		}
	}
	return out, nil
}

type reconcileOptions struct {
	source         string
	forceOverwrite bool
	statsOnly      bool
	requireChange  bool
}

func (s *MatchSyncService) reconcileBatch(ctx context.Context, remotes []RemoteMatch, opts reconcileOptions) SyncReport {
	var report SyncReport
	for _, remote := range remotes {
		report.add(s.reconcileOne(ctx, remote, opts))
	}
	return report
}

// reconcileOne applies a single remote record. A failure here never
// aborts the surrounding batch; it is reported as an error disposition.
func (s *MatchSyncService) reconcileOne(ctx context.Context, remote RemoteMatch, opts reconcileOptions) SyncDetail {
	if reason, ok := validateRemoteMatch(remote); !ok {
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeSkipped, Reason: reason}
	}

	local, found, err := s.matches.GetByExternalID(ctx, remote.ExternalID)
	if err != nil {
		s.logger.ErrorContext(ctx, "lookup local match failed", "external_id", remote.ExternalID, "error", err)
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeError, Reason: "lookup local record: " + err.Error()}
	}

	now := s.now().UTC()
	if !found {
		created := newMatchFromRemote(remote, opts.source, now)
		if _, err := s.matches.Create(ctx, created); err != nil {
			if errors.Is(err, match.ErrDuplicateExternalID) {
				return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeError, Reason: "duplicate external id"}
			}
			s.logger.ErrorContext(ctx, "create match failed", "external_id", remote.ExternalID, "error", err)
			return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeError, Reason: "create local record: " + err.Error()}
		}
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeCreated}
	}

	// Protection wins over everything, force overwrite included.
	if !local.AllowSync {
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeSkipped, Reason: skipReasonProtected}
	}

	if opts.requireChange && !opts.forceOverwrite && !hasMaterialChange(local, remote) {
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeSkipped, Reason: skipReasonNoChange}
	}

	merged := mergeRemoteMatch(local, remote, opts.source, now, opts.statsOnly)
	if _, err := s.matches.Update(ctx, merged); err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeError, Reason: "local record vanished during update"}
		}
		s.logger.ErrorContext(ctx, "update match failed", "external_id", remote.ExternalID, "error", err)
		return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeError, Reason: "update local record: " + err.Error()}
	}
	return SyncDetail{ExternalID: remote.ExternalID, Outcome: SyncOutcomeUpdated}
}

func validateRemoteMatch(remote RemoteMatch) (string, bool) {
	if strings.TrimSpace(remote.ExternalID) == "" {
		return skipReasonMissingID, false
	}
	if remote.State == "" {
		return skipReasonBadState, false
	}
	if !teamPopulated(remote.Home) && !teamPopulated(remote.Away) {
		return skipReasonNoTeams, false
	}
	return "", true
}

func teamPopulated(team match.Team) bool {
	return strings.TrimSpace(team.Name) != "" || strings.TrimSpace(team.ExternalID) != ""
}

func hasMaterialChange(local match.Match, remote RemoteMatch) bool {
	if local.State != remote.State {
		return true
	}
	if local.Score != remote.Score {
		return true
	}
	return local.Stats.IsEmpty()
}

func newMatchFromRemote(remote RemoteMatch, source string, now time.Time) match.Match {
	lastSynced := now
	return match.Match{
		ExternalID:     remote.ExternalID,
		SportID:        remote.SportID,
		State:          remote.State,
		League:         remote.League,
		Home:           remote.Home,
		Away:           remote.Away,
		AltHome:        remote.AltHome,
		AltAway:        remote.AltAway,
		KickoffAt:      remote.KickoffAt,
		Score:          remote.Score,
		ScoreBreakdown: remote.ScoreBreakdown,
		Timer:          remote.Timer,
		Stats:          remote.Stats,
		Bet365ID:       remote.Bet365ID,
		Round:          remote.Round,
		RecordStatus:   match.RecordStatusActive,
		AllowSync:      true,
		DataSource:     source,
		LastSyncedAt:   &lastSynced,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// mergeRemoteMatch applies the remote payload over the local record.
// Identity, protection and audit fields always stay local; stats stay
// local when the remote payload carries none.
func mergeRemoteMatch(local match.Match, remote RemoteMatch, source string, now time.Time, statsOnly bool) match.Match {
	merged := local

	if !statsOnly {
		merged.SportID = remote.SportID
		merged.State = remote.State
		merged.League = remote.League
		merged.Home = remote.Home
		merged.Away = remote.Away
		merged.AltHome = remote.AltHome
		merged.AltAway = remote.AltAway
		merged.KickoffAt = remote.KickoffAt
		merged.Score = remote.Score
		merged.ScoreBreakdown = remote.ScoreBreakdown
		merged.Bet365ID = remote.Bet365ID
		merged.Round = remote.Round
	}

	merged.Timer = remote.Timer
	if remote.Stats != nil {
		merged.Stats = remote.Stats
	}

	lastSynced := now
	merged.DataSource = source
	merged.LastSyncedAt = &lastSynced
	merged.UpdatedAt = now
	return merged
}
