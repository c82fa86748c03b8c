package api

import (
	"net/http"
	"strconv"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	homePostCount = 3
	blogPageSize  = 6
)

type publicHandler struct {
	responder      Responder
	logger         zerolog.Logger
	blogPostRepo   *database.BlogPostRepo
	specialistRepo *database.SpecialistRepo
}

func newPublicHandler(blogPostRepo *database.BlogPostRepo, specialistRepo *database.SpecialistRepo, renderer *renderer) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	return publicHandler{
		responder:      NewResponder(logger, renderer),
		logger:         logger,
		blogPostRepo:   blogPostRepo,
		specialistRepo: specialistRepo,
	}
}

func (h publicHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.Recent(homePostCount)
		if err != nil {
			// The home page still renders without the blog teaser.
			h.logger.Error().Err(err).Msg("error loading recent posts")
			posts = nil
		}
		h.responder.Render(w, r, http.StatusOK, "index", "Início", map[string]any{
			"Posts": posts,
		})
	}
}

func (h publicHandler) companies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialists, err := h.specialistRepo.FindActive()
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find active specialists", "specialist", err))
			return
		}
		h.responder.Render(w, r, http.StatusOK, "empresas", "Para Empresas", map[string]any{
			"Specialists": specialists,
			"Areas":       models.SpecialistAreas,
		})
	}
}

// page renders a template that needs no data.
func (h publicHandler) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, http.StatusOK, name, title, nil)
	}
}

type pagination struct {
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Pages      []int
}

func newPagination(page, perPage int, total int64) pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	p := pagination{
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
	for i := 1; i <= totalPages; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

func (h publicHandler) blogList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		posts, total, err := h.blogPostRepo.Page(page, blogPageSize)
		if err != nil {
			h.logger.Error().Err(err).Msg("error loading blog page")
			h.responder.Redirect(w, r, "/", flashWarning, "Não foi possível carregar os posts do blog. Tente novamente mais tarde.")
			return
		}

		h.responder.Render(w, r, http.StatusOK, "blog_list", "Blog", map[string]any{
			"Posts":      posts,
			"Pagination": newPagination(page, blogPageSize, total),
		})
	}
}

func (h publicHandler) blogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "postID"))
		if !ok {
			h.responder.NotFound(w, r)
			return
		}

		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		h.responder.Render(w, r, http.StatusOK, "blog_post", post.Title, map[string]any{
			"Post": post,
		})
	}
}

// parseID reads a positive integer route parameter.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
