package httpapi

import "net/http"

func (h *Handler) MatchQuality(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchQuality")
	defer span.End()

	report, err := h.analyticsService.AssessQuality(ctx, r.PathValue("externalID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) MatchDominance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchDominance")
	defer span.End()

	report, err := h.analyticsService.DominanceScores(ctx, r.PathValue("externalID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) DataCompleteness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DataCompleteness")
	defer span.End()

	report, err := h.analyticsService.DataCompleteness(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}
