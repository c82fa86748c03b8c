package api

import (
	"net/http"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contactFormMaxBytes = 64 << 10

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	notifier  services.Notifier
}

func newContactHandler(notifier services.Notifier, renderer *renderer) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		notifier:  notifier,
	}
}

func (h contactHandler) companyContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, contactFormMaxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, "/empresas", services.CompanyContactInvalidMessage)
			return
		}

		err := h.notifier.NotifyCompanyContact(r.Context(), services.CompanyContact{
			Name:     formValue(r, "nome"),
			Company:  formValue(r, "empresa"),
			Document: formValue(r, "cnpj_cpf"),
			Email:    formValue(r, "email"),
			Phone:    formValue(r, "telefone"),
			Message:  formValue(r, "mensagem"),
		})
		switch {
		case errs.IsValidation(err):
			h.responder.Redirect(w, r, "/empresas", flashWarning, services.CompanyContactInvalidMessage)
		case err != nil:
			h.responder.FailRedirect(w, r, err, "/empresas", "Ocorreu um erro ao tentar enviar sua solicitação. Por favor, tente novamente mais tarde.")
		default:
			h.responder.Redirect(w, r, "/empresas", flashSuccess, "Sua solicitação foi enviada com sucesso! Nossa equipe entrará em contato em breve.")
		}
	}
}

func (h contactHandler) contactPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, http.StatusOK, "contato", "Contato", map[string]any{
			"Form": services.GeneralContact{},
		})
	}
}

func (h contactHandler) generalContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, contactFormMaxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, "/contato", services.GeneralContactInvalidMessage)
			return
		}

		form := services.GeneralContact{
			Name:    formValue(r, "nome"),
			Email:   formValue(r, "email"),
			Phone:   formValue(r, "telefone"),
			Subject: formValue(r, "assunto"),
			Message: formValue(r, "mensagem"),
		}
		err := h.notifier.NotifyGeneralContact(r.Context(), form)
		switch {
		case errs.IsValidation(err):
			// Re-render so the visitor keeps what was typed.
			h.responder.Render(w, r, http.StatusBadRequest, "contato", "Contato", map[string]any{
				"Form": form,
			}, flashMessage{Category: flashWarning, Message: services.GeneralContactInvalidMessage})
		case err != nil:
			h.responder.FailRedirect(w, r, err, "/contato", "Ocorreu um erro ao tentar enviar sua mensagem. Por favor, tente novamente mais tarde.")
		default:
			h.responder.Redirect(w, r, "/contato", flashSuccess, "Sua mensagem foi enviada com sucesso! Entraremos em contato em breve.")
		}
	}
}
