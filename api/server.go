package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies) (Server, error) {
	settings := deps.Settings
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)

	startupTime := time.Now()

	router, err := newRouter(deps, withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime time.Time
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) (*chi.Mux, error) {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	settings := deps.Settings
	sessions := newSessionManager(settings.SessionSecret, settings.SessionTTL, !settings.IsDevelopment())

	auth := newAuthMiddleware(sessions, deps.Database.UserRepo(), renderer)
	handlers := initializeHandlers(deps, sessions, auth, renderer, router.startupTime)
	responder := NewResponder(log.With().Str("handlerName", "router").Logger(), renderer)

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors(responder))
	chiRouter.Use(HTTPLoggingMiddleware(newRequestLogger(settings.IsDevelopment())))
	if settings.MetricsEnabled {
		chiRouter.Use(MetricsMiddleware)
	}
	chiRouter.Use(securityHeaders)
	if len(settings.AcceptedOrigins) > 0 {
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   settings.AcceptedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	chiRouter.Use(auth.identify)

	chiRouter.NotFound(responder.NotFound)
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.Render(w, r, http.StatusMethodNotAllowed, "error", "Método não permitido", map[string]any{
			"Status":  http.StatusMethodNotAllowed,
			"Message": "Este endereço não aceita esse tipo de requisição.",
		})
	})

	setupPublicRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, auth)
	setupOperationalRoutes(chiRouter, handlers, settings.MetricsEnabled)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
