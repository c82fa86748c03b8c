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

const adminBlogPath = "/admin/blog"

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	store        storage.Store
	maxBytes     int64
	now          func() time.Time
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo, store storage.Store, maxBytes int64, renderer *renderer) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger, renderer),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		store:        store,
		maxBytes:     maxBytes,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// getAllBlogPosts lists every post for the admin, newest first.
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}
		h.responder.Render(w, r, http.StatusOK, "admin_blog_list", "Blog", map[string]any{
			"Posts": blogPosts,
		})
	}
}

func (h blogPostHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, post *models.BlogPost, extra ...flashMessage) {
	title := "Novo Post"
	action := adminBlogPath + "/novo"
	if post.ID != 0 {
		title = "Editar Post"
		action = adminBlogPath + "/editar/" + formatID(post.ID)
	}
	h.responder.Render(w, r, status, "admin_blog_form", title, map[string]any{
		"Post":   post,
		"Action": action,
	}, extra...)
}

func (h blogPostHandler) newBlogPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderForm(w, r, http.StatusOK, &models.BlogPost{Author: models.DefaultPostAuthor})
	}
}

func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, adminBlogPath+"/novo", genericErrorMessage)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		post := models.BlogPost{PublishedAt: h.now()}
		applyBlogPostForm(&post, r)
		if !h.valid(w, r, &post) {
			return
		}

		image, err := h.saveImage(r)
		if err != nil {
			h.responder.FailRedirect(w, r, err, adminBlogPath+"/novo", "Ocorreu um erro ao criar o post.")
			return
		}
		if image != "" {
			post.FeaturedImage = &image
		}

		if err := h.blogPostRepo.Add(&post); err != nil {
			h.discard(r.Context(), image)
			h.responder.FailRedirect(w, r, wrapDatabaseError("create blog post", "blog_post", err), adminBlogPath+"/novo", "Ocorreu um erro ao criar o post.")
			return
		}

		h.logger.Info().Uint("blogPostId", post.ID).Msg("blog post created")
		h.responder.Redirect(w, r, adminBlogPath, flashSuccess, "Novo post criado com sucesso!")
	}
}

func (h blogPostHandler) editBlogPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.load(w, r)
		if !ok {
			return
		}
		h.renderForm(w, r, http.StatusOK, post)
	}
}

func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.load(w, r)
		if !ok {
			return
		}
		editPath := adminBlogPath + "/editar/" + formatID(post.ID)

		if err := parseForm(w, r, h.maxBytes); err != nil {
			h.responder.FailRedirect(w, r, err, editPath, genericErrorMessage)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		applyBlogPostForm(post, r)
		if !h.valid(w, r, post) {
			return
		}

		upload, file, err := formFile(r, "imagem_destaque")
		if err != nil {
			h.responder.FailRedirect(w, r, err, editPath, "Erro ao atualizar o post.")
			return
		}
		if file != nil {
			defer file.Close()
		}
		var replaced string
		if upload != nil && storage.Allowed(upload.Filename, storage.ImageExtensions) {
			if err := deleteStored(r.Context(), h.store, post.FeaturedImage); err != nil {
				h.responder.FailRedirect(w, r, err, editPath, "Erro ao atualizar o post.")
				return
			}
			post.FeaturedImage = nil
			image, err := storeImage(r.Context(), h.store, storage.PrefixPost, h.now(), upload)
			if err != nil {
				h.responder.FailRedirect(w, r, err, editPath, "Erro ao atualizar o post.")
				return
			}
			post.FeaturedImage = &image
			replaced = image
		}

		if err := h.blogPostRepo.Update(post); err != nil {
			h.discard(r.Context(), replaced)
			h.responder.FailRedirect(w, r, wrapDatabaseError("update blog post", "blog_post", err), editPath, "Erro ao atualizar o post.")
			return
		}

		h.logger.Info().Uint("blogPostId", post.ID).Msg("blog post updated")
		h.responder.Redirect(w, r, adminBlogPath, flashSuccess, "Post atualizado com sucesso!")
	}
}

func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.load(w, r)
		if !ok {
			return
		}

		if err := deleteStored(r.Context(), h.store, post.FeaturedImage); err != nil {
			h.responder.FailRedirect(w, r, err, adminBlogPath, "Ocorreu um erro ao excluir o post.")
			return
		}
		if err := h.blogPostRepo.Delete(post.ID); err != nil {
			h.responder.FailRedirect(w, r, wrapDatabaseError("delete blog post", "blog_post", err), adminBlogPath, "Ocorreu um erro ao excluir o post.")
			return
		}

		h.logger.Info().Uint("blogPostId", post.ID).Msg("blog post deleted")
		h.responder.Redirect(w, r, adminBlogPath, flashSuccess, "Post excluído com sucesso!")
	}
}

func (h blogPostHandler) load(w http.ResponseWriter, r *http.Request) (*models.BlogPost, bool) {
	id, ok := parseID(chi.URLParam(r, "blogPostID"))
	if !ok {
		h.responder.NotFound(w, r)
		return nil, false
	}
	post, err := h.blogPostRepo.FindByID(id)
	if err != nil {
		h.responder.WriteError(w, r, wrapDatabaseError("find blog post", "blog_post", err))
		return nil, false
	}
	return post, true
}

func (h blogPostHandler) valid(w http.ResponseWriter, r *http.Request, post *models.BlogPost) bool {
	if post.Title == "" || post.Content == "" {
		h.renderForm(w, r, http.StatusBadRequest, post, flashMessage{Category: flashWarning, Message: "Título e Conteúdo são campos obrigatórios."})
		return false
	}
	if err := services.ValidateStruct(post); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, post, flashMessage{Category: flashWarning, Message: errs.UserMessage(err, genericErrorMessage)})
		return false
	}
	return true
}

func (h blogPostHandler) saveImage(r *http.Request) (string, error) {
	upload, file, err := formFile(r, "imagem_destaque")
	if err != nil || upload == nil {
		return "", err
	}
	defer file.Close()
	if !storage.Allowed(upload.Filename, storage.ImageExtensions) {
		h.logger.Info().Str("filename", upload.Filename).Msg("featured image ignored, extension not allowed")
		return "", nil
	}
	return storeImage(r.Context(), h.store, storage.PrefixPost, h.now(), upload)
}

func (h blogPostHandler) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := h.store.Delete(ctx, name); err != nil {
		h.logger.Warn().Err(err).Str("file", name).Msg("could not remove image after failed save")
	}
}

func applyBlogPostForm(post *models.BlogPost, r *http.Request) {
	post.Title = formValue(r, "titulo")
	post.Content = formValue(r, "conteudo")
	post.Author = formValue(r, "autor")
	if post.Author == "" {
		post.Author = models.DefaultPostAuthor
	}
}
