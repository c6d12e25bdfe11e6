package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pitchside/match-center/internal/platform/logging"
	"github.com/pitchside/match-center/internal/usecase"
)

// Handler carries the usecase services behind the HTTP surface.
type Handler struct {
	matchService     *usecase.MatchService
	syncService      *usecase.MatchSyncService
	analyticsService *usecase.AnalyticsService
	logger           *logging.Logger
	validate         *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	syncService *usecase.MatchSyncService,
	analyticsService *usecase.AnalyticsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		matchService:     matchService,
		syncService:      syncService,
		analyticsService: analyticsService,
		logger:           logger,
		validate:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
