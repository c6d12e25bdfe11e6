package httpapi

import (
	"net/http"

	"github.com/pitchside/match-center/internal/platform/logging"
)

// NewRouter assembles the HTTP routing table with the shared middleware
// chain: tracing -> request logging -> CORS -> panic recovery -> mux.
func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, corsAllowedOrigins []string, internalJobToken string) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, handler, verifier, internalJobToken)

	var root http.Handler = mux
	root = recoverPanic(logger, root)
	root = CORS(corsAllowedOrigins, root)
	root = RequestLogging(logger, root)
	root = RequestTracing(root)
	return root
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
