package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const specialistsPath = "/admin/especialistas"

type specialistHandler struct {
	responder      Responder
	logger         zerolog.Logger
	specialistRepo *database.SpecialistRepo
	store          storage.Store
	maxBytes       int64
	now            func() time.Time
}

func newSpecialistHandler(specialistRepo *database.SpecialistRepo, store storage.Store, maxBytes int64, renderer *renderer) specialistHandler {
	logger := log.With().Str("handlerName", "specialistHandler").Logger()

	return specialistHandler{
		responder:      NewResponder(logger, renderer),
		logger:         logger,
		specialistRepo: specialistRepo,
		store:          store,
		maxBytes:       maxBytes,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (h specialistHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialists, err := h.specialistRepo.FindAll()
		if err != nil {
			h.responder.FailRedirect(w, r, wrapDatabaseError("find specialists", "specialist", err), "/admin", "Erro ao carregar a lista de especialistas. Verifique o banco de dados.")
			return
		}
		h.responder.Render(w, r, http.StatusOK, "admin_especialistas_list", "Especialistas", map[string]any{
			"Specialists": specialists,
		})
	}
}

func (h specialistHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, specialist *models.Specialist, extra ...flashMessage) {
	title := "Adicionar Novo Especialista"
	action := specialistsPath + "/novo"
	if specialist.ID != 0 {
		title = "Editar Especialista"
		action = specialistsPath + "/editar/" + formatID(specialist.ID)
	}
	h.responder.Render(w, r, status, "admin_especialistas_form", title, map[string]any{
		"Specialist": specialist,
		"Areas":      models.SpecialistAreas,
		"Action":     action,
	}, extra...)
}

func (h specialistHandler) newForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderForm(w, r, http.StatusOK, &models.Specialist{Active: true, Area: models.DefaultSpecialistArea})
	}
}

func (h specialistHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, specialistsPath+"/novo", genericErrorMessage)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		var specialist models.Specialist
		applySpecialistForm(&specialist, r)
		if !h.valid(w, r, &specialist) {
			return
		}

		photo, err := h.savePhoto(r)
		if err != nil {
			h.responder.FailRedirect(w, r, err, specialistsPath+"/novo", "Ocorreu um erro ao criar o especialista.")
			return
		}
		if photo != "" {
			specialist.PhotoPath = &photo
		}

		if err := h.specialistRepo.Add(&specialist); err != nil {
			h.discard(r.Context(), photo)
			h.responder.FailRedirect(w, r, wrapDatabaseError("create specialist", "specialist", err), specialistsPath+"/novo", "Ocorreu um erro ao criar o especialista.")
			return
		}

		h.logger.Info().Uint("specialistId", specialist.ID).Msg("specialist created")
		h.responder.Redirect(w, r, specialistsPath, flashSuccess, "Novo especialista adicionado com sucesso!")
	}
}

func (h specialistHandler) editForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialist, ok := h.load(w, r)
		if !ok {
			return
		}
		h.renderForm(w, r, http.StatusOK, specialist)
	}
}

func (h specialistHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialist, ok := h.load(w, r)
		if !ok {
			return
		}
		editPath := specialistsPath + "/editar/" + formatID(specialist.ID)

		if err := parseForm(w, r, h.maxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, editPath, genericErrorMessage)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		applySpecialistForm(specialist, r)
		if !h.valid(w, r, specialist) {
			return
		}

		upload, file, err := formFile(r, "foto")
		if err != nil {
			h.responder.FailRedirect(w, r, err, editPath, "Ocorreu um erro ao atualizar o especialista.")
			return
		}
		if file != nil {
			defer file.Close()
		}
		var replaced string
		if upload != nil && storage.Allowed(upload.Filename, storage.ImageExtensions) {
			// The old photo goes first so a replaced image never lingers.
			if err := deleteStored(r.Context(), h.store, specialist.PhotoPath); err != nil {
				h.responder.FailRedirect(w, r, err, editPath, "Ocorreu um erro ao atualizar o especialista.")
				return
			}
			specialist.PhotoPath = nil
			photo, err := storeImage(r.Context(), h.store, storage.PrefixSpecialist, h.now(), upload)
			if err != nil {
				h.responder.FailRedirect(w, r, err, editPath, "Ocorreu um erro ao atualizar o especialista.")
				return
			}
			specialist.PhotoPath = &photo
			replaced = photo
		}

		if err := h.specialistRepo.Update(specialist); err != nil {
			h.discard(r.Context(), replaced)
			h.responder.FailRedirect(w, r, wrapDatabaseError("update specialist", "specialist", err), editPath, "Ocorreu um erro ao atualizar o especialista.")
			return
		}

		h.logger.Info().Uint("specialistId", specialist.ID).Msg("specialist updated")
		h.responder.Redirect(w, r, specialistsPath, flashSuccess, "Especialista atualizado com sucesso!")
	}
}

func (h specialistHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialist, ok := h.load(w, r)
		if !ok {
			return
		}

		if err := deleteStored(r.Context(), h.store, specialist.PhotoPath); err != nil {
			h.responder.FailRedirect(w, r, err, specialistsPath, "Ocorreu um erro ao excluir o especialista.")
			return
		}
		if err := h.specialistRepo.Delete(specialist.ID); err != nil {
			h.responder.FailRedirect(w, r, wrapDatabaseError("delete specialist", "specialist", err), specialistsPath, "Ocorreu um erro ao excluir o especialista.")
			return
		}

		h.logger.Info().Uint("specialistId", specialist.ID).Msg("specialist deleted")
		h.responder.Redirect(w, r, specialistsPath, flashSuccess, "Especialista excluído com sucesso.")
	}
}

// load fetches the specialist named in the route or answers 404.
func (h specialistHandler) load(w http.ResponseWriter, r *http.Request) (*models.Specialist, bool) {
	id, ok := parseID(chi.URLParam(r, "specialistID"))
	if !ok {
		h.responder.NotFound(w, r)
		return nil, false
	}
	specialist, err := h.specialistRepo.FindByID(id)
	if err != nil {
		h.responder.WriteError(w, r, wrapDatabaseError("find specialist", "specialist", err))
		return nil, false
	}
	return specialist, true
}

// valid re-renders the form with a warning when required fields are missing.
func (h specialistHandler) valid(w http.ResponseWriter, r *http.Request, specialist *models.Specialist) bool {
	if specialist.Name == "" || specialist.Title == "" {
		h.renderForm(w, r, http.StatusBadRequest, specialist, flashMessage{Category: flashWarning, Message: "Nome e Título são campos obrigatórios."})
		return false
	}
	if err := services.ValidateStruct(specialist); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, specialist, flashMessage{Category: flashWarning, Message: errs.UserMessage(err, genericErrorMessage)})
		return false
	}
	return true
}

func (h specialistHandler) savePhoto(r *http.Request) (string, error) {
	upload, file, err := formFile(r, "foto")
	if err != nil || upload == nil {
		return "", err
	}
	defer file.Close()
	if !storage.Allowed(upload.Filename, storage.ImageExtensions) {
		h.logger.Info().Str("filename", upload.Filename).Msg("photo ignored, extension not allowed")
		return "", nil
	}
	return storeImage(r.Context(), h.store, storage.PrefixSpecialist, h.now(), upload)
}

func (h specialistHandler) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := h.store.Delete(ctx, name); err != nil {
		h.logger.Warn().Err(err).Str("file", name).Msg("could not remove photo after failed save")
	}
}

func applySpecialistForm(s *models.Specialist, r *http.Request) {
	s.Name = formValue(r, "nome")
	s.Title = formValue(r, "titulo")
	s.Area = models.NormalizeArea(formValue(r, "area"))
	s.BioIntro = formValue(r, "bio_intro")
	s.BioListTitle = formValue(r, "bio_lista_titulo")
	s.BioItems = models.SplitBioItems(r.PostFormValue("bio_lista_itens"))
	s.BioConclusion = formValue(r, "bio_conclusao")
	s.WhatsApp = formValue(r, "contato_whatsapp")
	s.Email = formValue(r, "contato_email")
	s.LinkedIn = formValue(r, "contato_linkedin")
	s.Instagram = formValue(r, "contato_instagram")
	s.ExtraContact = formValue(r, "contato_extra")
	s.Order = formInt(r, "ordem")
	s.Active = r.PostForm.Has("ativo")
}

// storeImage saves an allowed image upload under a generated name.
func storeImage(ctx context.Context, store storage.Store, prefix string, at time.Time, upload *services.Upload) (string, error) {
	name, err := storage.BuildName(prefix, 0, at, upload.Filename)
	if err != nil {
		return "", errs.NewInvalidFilenameError(upload.Filename, err.Error())
	}
	if err := store.Save(ctx, name, upload.Content); err != nil {
		return "", errs.NewStorageError("save", name, err)
	}
	return name, nil
}
