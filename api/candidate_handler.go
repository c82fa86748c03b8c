package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const candidatesPath = "/admin/candidatos"

type candidateHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	store     storage.Store
}

func newCandidateHandler(db database.Database, store storage.Store, renderer *renderer) candidateHandler {
	logger := log.With().Str("handlerName", "candidateHandler").Logger()

	return candidateHandler{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		database:  db,
		store:     store,
	}
}

func (h candidateHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.ApplicationFilter{
			By:   r.URL.Query().Get("filtro_por"),
			Term: strings.TrimSpace(r.URL.Query().Get("termo_busca")),
		}
		if filter.By != database.SearchByApplication {
			filter.By = database.SearchByPerson
		}

		applications, err := h.database.WithContext(r.Context()).ApplicationRepo().Search(filter)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("search applications", "application", err))
			return
		}

		h.responder.Render(w, r, http.StatusOK, "admin_candidatos", "Candidaturas", map[string]any{
			"Applications": applications,
			"Filter":       filter,
		})
	}
}

func (h candidateHandler) detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "personID"))
		if !ok {
			h.responder.NotFound(w, r)
			return
		}

		person, err := h.database.WithContext(r.Context()).PersonRepo().FindByID(id)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find person", "person", err))
			return
		}

		// Applications are preloaded newest first.
		var latest *models.Application
		if len(person.Applications) > 0 {
			latest = &person.Applications[0]
		}

		h.responder.Render(w, r, http.StatusOK, "detalhe_candidato", person.FullName, map[string]any{
			"Person": person,
			"Latest": latest,
		})
	}
}

func (h candidateHandler) deleteApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "applicationID"))
		if !ok {
			h.responder.NotFound(w, r)
			return
		}

		repo := h.database.WithContext(r.Context()).ApplicationRepo()
		application, err := repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find application", "application", err))
			return
		}

		if err := deleteStored(r.Context(), h.store, application.ResumeFile); err != nil {
			h.responder.FailRedirect(w, r, err, candidatesPath, "Ocorreu um erro ao excluir a candidatura.")
			return
		}
		if err := repo.Delete(application.ID); err != nil {
			h.responder.FailRedirect(w, r, wrapDatabaseError("delete application", "application", err), candidatesPath, "Ocorreu um erro ao excluir a candidatura.")
			return
		}

		h.logger.Info().Uint("applicationId", application.ID).Msg("application deleted")
		h.responder.Redirect(w, r, candidatesPath, flashSuccess, "Candidatura excluída com sucesso!")
	}
}

func (h candidateHandler) deletePerson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "personID"))
		if !ok {
			h.responder.NotFound(w, r)
			return
		}

		repo := h.database.WithContext(r.Context()).PersonRepo()
		person, err := repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find person", "person", err))
			return
		}

		for _, application := range person.Applications {
			if err := deleteStored(r.Context(), h.store, application.ResumeFile); err != nil {
				h.responder.FailRedirect(w, r, err, "/pessoa/"+chi.URLParam(r, "personID"), "Ocorreu um erro ao excluir o candidato.")
				return
			}
		}
		if err := repo.Delete(person.ID); err != nil {
			h.responder.FailRedirect(w, r, wrapDatabaseError("delete person", "person", err), candidatesPath, "Ocorreu um erro ao excluir o candidato.")
			return
		}

		h.logger.Info().Uint("personId", person.ID).Int("applications", len(person.Applications)).Msg("person deleted")
		h.responder.Redirect(w, r, candidatesPath, flashSuccess, "Candidato e todas as suas candidaturas foram excluídos.")
	}
}

// deleteStored removes an upload; a missing file is not an error.
func deleteStored(ctx context.Context, store storage.Store, name *string) error {
	if name == nil || *name == "" {
		return nil
	}
	if err := store.Delete(ctx, *name); err != nil {
		return errs.NewStorageError("delete", *name, err)
	}
	return nil
}
