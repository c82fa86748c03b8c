package api

import (
	"errors"
	"net/http"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const submissionPath = "/cadastro-curriculo/"

type submissionHandler struct {
	responder   Responder
	logger      zerolog.Logger
	submissions services.SubmissionService
	maxBytes    int64
}

func newSubmissionHandler(submissions services.SubmissionService, maxBytes int64, renderer *renderer) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder:   NewResponder(logger, renderer),
		logger:      logger,
		submissions: submissions,
		maxBytes:    maxBytes,
	}
}

func (h submissionHandler) form() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, http.StatusOK, "cadastro_curriculo", "Cadastre seu Currículo", nil)
	}
}

func (h submissionHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, submissionPath, genericErrorMessage)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		sub, file, err := parseSubmission(r)
		if err != nil {
			h.responder.FailRedirect(w, r, err, submissionPath, genericErrorMessage)
			return
		}
		if file != nil {
			defer file.Close()
		}

		result, err := h.submissions.Submit(r.Context(), sub)
		switch {
		case errs.IsValidation(err):
			category := flashWarning
			if errors.Is(err, errs.ErrConsentRequired) {
				category = flashDanger
			}
			h.responder.Redirect(w, r, submissionPath, category, errs.UserMessage(err, genericErrorMessage))
		case err != nil:
			h.responder.FailRedirect(w, r, err, submissionPath, genericErrorMessage)
		case result.Updated:
			h.responder.Redirect(w, r, submissionPath, flashSuccess, "Seu perfil foi atualizado e sua nova candidatura foi registrada com sucesso!")
		default:
			h.responder.Redirect(w, r, submissionPath, flashSuccess, "Sua candidatura foi enviada com sucesso! Boa sorte!")
		}
	}
}
