package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.Store
	auth      authMiddleware
}

func newUploadHandler(store storage.Store, auth authMiddleware, renderer *renderer) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		store:     store,
		auth:      auth,
	}
}

// download serves a stored file as an attachment.
func (h uploadHandler) download() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, "attachment")
	}
}

// view serves a stored file inline.
func (h uploadHandler) view() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, "inline")
	}
}

func (h uploadHandler) serve(w http.ResponseWriter, r *http.Request, disposition string) {
	name := chi.URLParam(r, "filename")
	if err := storage.ValidateName(name); err != nil {
		h.responder.NotFound(w, r)
		return
	}
	// Résumés are personal data and only visible to admins.
	if storage.IsResume(name) && ctxGetUser(r.Context()) == nil {
		h.auth.redirectToLogin(w, r)
		return
	}

	file, err := h.store.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		h.responder.NotFound(w, r)
		return
	}
	if err != nil {
		h.responder.WriteError(w, r, err)
		return
	}
	defer file.Close()

	header := w.Header()
	if ct := mime.TypeByExtension("." + storage.Extension(name)); ct != "" {
		header.Set("Content-Type", ct)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}
	header.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	if storage.IsResume(name) {
		header.Set("Cache-Control", "private, no-store")
	} else {
		header.Set("Cache-Control", "public, max-age=86400")
	}

	if seeker, ok := file.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, seeker)
		return
	}
	if _, err := io.Copy(w, file); err != nil {
		h.logger.Warn().Err(err).Str("file", name).Msg("error streaming upload")
	}
}
