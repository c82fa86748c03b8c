package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const loginFormMaxBytes = 16 << 10

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  services.AccountService
	sessions  sessionManager
	database  database.Database
}

func newAuthHandler(accounts services.AccountService, sessions sessionManager, db database.Database, renderer *renderer) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		accounts:  accounts,
		sessions:  sessions,
		database:  db,
	}
}

func (h authHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxGetUser(r.Context()) != nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		h.responder.Render(w, r, http.StatusOK, "login", "Login", map[string]any{
			"Next": safeNext(r.URL.Query().Get("next")),
		})
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxGetUser(r.Context()) != nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if err := parseForm(w, r, loginFormMaxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, "/login", "Login falhou. Verifique o usuário e a senha.")
			return
		}

		next := safeNext(formValue(r, "next"))
		user, err := h.accounts.Authenticate(r.Context(), formValue(r, "username"), r.PostFormValue("password"))
		if err != nil {
			target := "/login"
			if next != "" {
				target += "?next=" + url.QueryEscape(next)
			}
			h.responder.FailRedirect(w, r, err, target, "Login falhou. Verifique o usuário e a senha.")
			return
		}

		if err := h.sessions.issue(w, user.ID); err != nil {
			h.responder.FailRedirect(w, r, err, "/login", genericErrorMessage)
			return
		}
		h.logger.Info().Str("username", user.Username).Msg("admin logged in")

		if next == "" {
			next = "/admin"
		}
		h.responder.Redirect(w, r, next, flashSuccess, "Login realizado com sucesso!")
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clear(w)
		h.responder.Redirect(w, r, "/login", flashSuccess, "Você foi desconectado com segurança.")
	}
}

type dashboardCounts struct {
	People       int64
	Applications int64
	Specialists  int64
	Posts        int64
}

func (h authHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var counts dashboardCounts
		g, ctx := errgroup.WithContext(r.Context())
		db := h.database.WithContext(ctx)

		g.Go(func() (err error) {
			counts.People, err = db.PersonRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			counts.Applications, err = db.ApplicationRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			counts.Specialists, err = db.SpecialistRepo().Count()
			return err
		})
		g.Go(func() (err error) {
			counts.Posts, err = db.BlogPostRepo().Count()
			return err
		})

		if err := g.Wait(); err != nil {
			h.logger.Error().Err(err).Msg("error loading dashboard counters")
		}

		h.responder.Render(w, r, http.StatusOK, "admin_dashboard", "Painel", map[string]any{
			"Counts": counts,
		})
	}
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
