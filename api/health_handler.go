package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time, renderer *renderer) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger, renderer),
		logger:      logger,
		database:    db,
		startupTime: startupTime,
	}
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			status, code = "degraded", http.StatusServiceUnavailable
		}

		h.responder.WriteJSON(w, code, map[string]any{
			"status":        status,
			"uptimeSeconds": int(time.Since(h.startupTime).Seconds()),
		})
	}
}
