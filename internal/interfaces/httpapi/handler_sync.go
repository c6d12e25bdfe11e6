package httpapi

import (
	"net/http"

	"github.com/pitchside/match-center/internal/usecase"
)

func (h *Handler) SyncByKind(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncByKind")
	defer span.End()

	kind, ok := usecase.ParseMatchFeedKind(r.PathValue("kind"))
	if !ok {
		writeError(ctx, w, wrapInvalidInput("unknown feed kind, expected upcoming, inplay or ended"))
		return
	}

	report, err := h.syncService.SyncByKind(ctx, kind, r.URL.Query().Get("day"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncAll")
	defer span.End()

	report, err := h.syncService.SyncAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

type selectiveSyncRequest struct {
	EventIDs       []string `json:"event_ids" validate:"required,min=1,dive,required"`
	ForceOverwrite bool     `json:"force_overwrite"`
	StatsOnly      bool     `json:"stats_only"`
	DateFilter     string   `json:"date_filter"`
	MatchTypeHint  string   `json:"match_type_hint"`
}

func (h *Handler) SelectiveSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectiveSync")
	defer span.End()

	var req selectiveSyncRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.SelectiveSync(ctx, usecase.SelectiveSyncInput{
		EventIDs:       req.EventIDs,
		ForceOverwrite: req.ForceOverwrite,
		StatsOnly:      req.StatsOnly,
		DateFilter:     req.DateFilter,
		MatchTypeHint:  req.MatchTypeHint,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ResyncIncomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResyncIncomplete")
	defer span.End()

	report, err := h.syncService.ResyncIncomplete(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}
