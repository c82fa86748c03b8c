package api

import (
	"net/http"
	"net/url"
	"os"
	"runtime/debug"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const loginRequiredMessage = "Por favor, faça o login para acessar esta página."

type authMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	sessions  sessionManager
	users     *database.UserRepo
}

func newAuthMiddleware(sessions sessionManager, users *database.UserRepo, renderer *renderer) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		sessions:  sessions,
		users:     users,
	}
}

// identify loads the admin behind a valid session cookie into the context.
// Invalid or stale cookies are cleared and the request continues anonymous.
func (m authMiddleware) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookieName); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.sessions.userID(r)
		if err != nil {
			m.logger.Debug().Err(err).Msg("discarding invalid session cookie")
			m.sessions.clear(w)
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.FindByID(userID)
		if err != nil {
			m.logger.Info().Err(err).Uint("userId", userID).Msg("session user no longer available")
			m.sessions.clear(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithUser(r.Context(), user)))
	})
}

// requireAdmin sends visitors to the login page, remembering where they were going.
func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxGetUser(r.Context()) == nil {
			m.redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m authMiddleware) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	m.responder.Redirect(w, r, target, flashWarning, loginRequiredMessage)
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LogInternalServerErrors recovers panics, logs them with the stack and
// renders the error page when nothing was written yet.
func LogInternalServerErrors(responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("requestId", ctxGetRequestID(r.Context())).
						Interface("panic", err).
						Str("stack", string(debug.Stack())).
						Msg("Recovered from panic")

					if !srw.wroteHeader {
						responder.Render(srw, r, http.StatusInternalServerError, "error", "Erro", map[string]any{
							"Status":  http.StatusInternalServerError,
							"Message": genericErrorMessage,
						})
					}
				}
			}()

			next.ServeHTTP(srw, r)

			if srw.status == http.StatusInternalServerError {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("requestId", ctxGetRequestID(r.Context())).
					Msg("500 error response")
			}
		})
	}
}

// RequestID tags every request with an id, reusing X-Request-ID when the
// proxy already set a valid one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := ctxWithRequestID(r.Context(), id)
		ctx = log.With().Str("requestId", id).Logger().WithContext(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newRequestLogger writes colored console lines in development and JSON
// everywhere else.
func newRequestLogger(development bool) zerolog.Logger {
	if development {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", "http").Logger()
}

// HTTPLoggingMiddleware logs every request with a level based on its status.
func HTTPLoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("requestId", ctxGetRequestID(r.Context())).
				Msg("HTTP Request")
		})
	}
}

// securityHeaders sets the headers every HTML response should carry.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
