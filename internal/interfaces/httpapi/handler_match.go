package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/usecase"
)

type matchResponse struct {
	ExternalID     string                       `json:"externalId"`
	SportID        int64                        `json:"sportId"`
	State          string                       `json:"state"`
	League         match.League                 `json:"league"`
	Home           match.Team                   `json:"home"`
	Away           match.Team                   `json:"away"`
	AltHome        *match.Team                  `json:"altHome,omitempty"`
	AltAway        *match.Team                  `json:"altAway,omitempty"`
	KickoffAt      time.Time                    `json:"kickoffAt"`
	Score          string                       `json:"score,omitempty"`
	ScoreBreakdown map[string]match.PeriodScore `json:"scoreBreakdown,omitempty"`
	Timer          *match.Timer                 `json:"timer,omitempty"`
	Stats          *match.Stats                 `json:"stats,omitempty"`
	Bet365ID       string                       `json:"bet365Id,omitempty"`
	Round          string                       `json:"round,omitempty"`
	RecordStatus   string                       `json:"recordStatus"`
	AllowSync      bool                         `json:"allowSync"`
	AdminNote      string                       `json:"adminNote,omitempty"`
	DataSource     string                       `json:"dataSource,omitempty"`
	LastSyncedAt   *time.Time                   `json:"lastSyncedAt,omitempty"`
	CreatedAt      time.Time                    `json:"createdAt"`
	UpdatedAt      time.Time                    `json:"updatedAt"`
}

func newMatchResponse(m match.Match) matchResponse {
	return matchResponse{
		ExternalID:     m.ExternalID,
		SportID:        m.SportID,
		State:          string(m.State),
		League:         m.League,
		Home:           m.Home,
		Away:           m.Away,
		AltHome:        m.AltHome,
		AltAway:        m.AltAway,
		KickoffAt:      m.KickoffAt,
		Score:          m.Score,
		ScoreBreakdown: m.ScoreBreakdown,
		Timer:          m.Timer,
		Stats:          m.Stats,
		Bet365ID:       m.Bet365ID,
		Round:          m.Round,
		RecordStatus:   string(m.RecordStatus),
		AllowSync:      m.AllowSync,
		AdminNote:      m.AdminNote,
		DataSource:     m.DataSource,
		LastSyncedAt:   m.LastSyncedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func newMatchResponses(items []match.Match) []matchResponse {
	out := make([]matchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, newMatchResponse(m))
	}
	return out
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query := r.URL.Query()
	filter := usecase.MatchListFilter{State: query.Get("state")}

	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(ctx, w, wrapInvalidInput("from must be RFC3339"))
			return
		}
		filter.From = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(ctx, w, wrapInvalidInput("to must be RFC3339"))
			return
		}
		filter.To = parsed
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, wrapInvalidInput("limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	items, err := h.matchService.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"items": newMatchResponses(items),
		"count": len(items),
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	found, err := h.matchService.Get(ctx, r.PathValue("externalID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newMatchResponse(found))
}

func (h *Handler) MatchCounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchCounts")
	defer span.End()

	counts, err := h.matchService.Counts(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	byState := make(map[string]int, len(counts))
	total := 0
	for state, n := range counts {
		byState[string(state)] = n
		total += n
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"byState": byState,
		"total":   total,
	})
}

type adminMatchUpdateRequest struct {
	AllowSync *bool   `json:"allowSync"`
	AdminNote *string `json:"adminNote"`
	State     *string `json:"state"`
	Score     *string `json:"score"`
}

func (h *Handler) AdminUpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminUpdateMatch")
	defer span.End()

	var body adminMatchUpdateRequest
	if err := decodeJSONBody(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.AdminUpdate(ctx, r.PathValue("externalID"), usecase.AdminMatchUpdateInput{
		AllowSync: body.AllowSync,
		AdminNote: body.AdminNote,
		State:     body.State,
		Score:     body.Score,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newMatchResponse(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	externalID := r.PathValue("externalID")

	var err error
	if r.URL.Query().Get("permanent") == "true" {
		err = h.matchService.HardDelete(ctx, externalID)
	} else {
		err = h.matchService.SoftDelete(ctx, externalID)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"externalId": externalID, "status": "deleted"})
}
