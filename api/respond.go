package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/rs/zerolog"
)

const genericErrorMessage = "Ocorreu um erro ao processar sua solicitação. Por favor, tente novamente."

type Responder struct {
	logger   zerolog.Logger
	renderer *renderer
}

func NewResponder(logger zerolog.Logger, renderer *renderer) Responder {
	return Responder{logger: logger, renderer: renderer}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// Render writes a full HTML page. Pending flashes from the cookie are shown
// together with any extra messages passed in.
func (r Responder) Render(w http.ResponseWriter, req *http.Request, status int, page, title string, data map[string]any, extra ...flashMessage) {
	flashes := append(popFlashes(w, req), extra...)
	pd := pageData{
		Title:     title,
		Path:      req.URL.Path,
		User:      ctxGetUser(req.Context()),
		Flashes:   flashes,
		Year:      time.Now().Year(),
		RequestID: ctxGetRequestID(req.Context()),
		Data:      data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := r.renderer.render(w, page, pd); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("error rendering template")
		w.Write([]byte("Erro interno ao montar a página."))
	}
}

// Redirect answers with 303 See Other, optionally leaving a flash message.
func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, target, category, message string) {
	if message != "" {
		setFlash(w, category, message)
	}
	http.Redirect(w, req, target, http.StatusSeeOther)
}

func (r Responder) NotFound(w http.ResponseWriter, req *http.Request) {
	r.Render(w, req, http.StatusNotFound, "error", "Página não encontrada", map[string]any{
		"Status":  http.StatusNotFound,
		"Message": "A página que você procura não existe ou foi removida.",
	})
}

// WriteError renders the error page for err, logging server-side failures
// with their full cause chain.
func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	if errs.IsNotFound(err) {
		r.NotFound(w, req)
		return
	}

	status := errs.StatusCode(err)
	r.logError(req, err, status)
	message := errs.UserMessage(err, genericErrorMessage)
	r.Render(w, req, status, "error", "Erro", map[string]any{
		"Status":  status,
		"Message": message,
	})
}

// FailRedirect logs err and redirects with a flash. Validation and delivery
// failures are warnings; validation errors carry their own message.
func (r Responder) FailRedirect(w http.ResponseWriter, req *http.Request, err error, target, fallback string) {
	status := errs.StatusCode(err)
	r.logError(req, err, status)
	category := flashDanger
	if errs.IsValidation(err) || errs.IsDeliveryError(err) {
		category = flashWarning
	}
	r.Redirect(w, req, target, category, errs.UserMessage(err, fallback))
}

func (r Responder) logError(req *http.Request, err error, status int) {
	event := r.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = r.logger.Error()
	}

	var apiErr *errs.ApiErr
	message := err.Error()
	if errors.As(err, &apiErr) {
		message = apiErr.GetFullError()
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("requestId", ctxGetRequestID(req.Context())).
		Int("status", status).
		Msg(message)
}
