package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupPublicRoutes registers the pages anyone can reach.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	public := handlers.publicHandler

	r.Get("/", public.home())
	r.Get("/empresas", public.companies())
	r.Get("/candidatos", public.page("candidatos", "Para Candidatos"))
	r.Get("/servicos", public.page("servicos", "Serviços"))
	r.Get("/sobre", public.page("sobre", "Sobre Nós"))
	r.Get("/politica-de-privacidade", public.page("politica_privacidade", "Política de Privacidade"))
	r.Get("/termos-de-uso", public.page("termos_de_uso", "Termos de Uso"))
	r.Get("/termo-dos-parceiros", public.page("termo_parceiros", "Termo dos Parceiros"))
	r.Get("/codigo-de-etica", public.page("codigo_de_etica", "Código de Ética"))
	r.Get("/blog", public.blogList())
	r.Get("/blog/post/{postID}", public.blogPost())

	r.Post("/contato-empresa", handlers.contactHandler.companyContact())
	r.Get("/contato", handlers.contactHandler.contactPage())
	r.Post("/contato", handlers.contactHandler.generalContact())

	r.Get(submissionPath, handlers.submissionHandler.form())
	r.Post(submissionPath, handlers.submissionHandler.submit())
	r.Get("/cadastro-curriculo", http.RedirectHandler(submissionPath, http.StatusMovedPermanently).ServeHTTP)

	r.Get("/login", handlers.authHandler.loginPage())
	r.Post("/login", handlers.authHandler.login())

	r.Get("/uploads/{filename}", handlers.uploadHandler.download())
	r.Get("/uploads/view/{filename}", handlers.uploadHandler.view())
}

// setupAdminRoutes registers everything behind the admin session.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(auth.requireAdmin)

		r.Get("/admin", handlers.authHandler.dashboard())
		r.Get("/logout", handlers.authHandler.logout())

		r.Get(candidatesPath, handlers.candidateHandler.list())
		r.Get("/pessoa/{personID}", handlers.candidateHandler.detail())
		r.Post("/pessoa/excluir/{personID}", handlers.candidateHandler.deletePerson())
		r.Post("/candidatura/excluir/{applicationID}", handlers.candidateHandler.deleteApplication())

		r.Route(specialistsPath, func(r chi.Router) {
			r.Get("/", handlers.specialistHandler.list())
			r.Get("/novo", handlers.specialistHandler.newForm())
			r.Post("/novo", handlers.specialistHandler.create())
			r.Get("/editar/{specialistID}", handlers.specialistHandler.editForm())
			r.Post("/editar/{specialistID}", handlers.specialistHandler.update())
			r.Post("/excluir/{specialistID}", handlers.specialistHandler.delete())
		})

		r.Route(adminBlogPath, func(r chi.Router) {
			r.Get("/", handlers.blogPostHandler.getAllBlogPosts())
			r.Get("/novo", handlers.blogPostHandler.newBlogPostForm())
			r.Post("/novo", handlers.blogPostHandler.createBlogPost())
			r.Get("/editar/{blogPostID}", handlers.blogPostHandler.editBlogPostForm())
			r.Post("/editar/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
			r.Post("/excluir/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())
		})
	})
}

// setupOperationalRoutes registers health, metrics and static assets.
func setupOperationalRoutes(r chi.Router, handlers *routeHandlers, metricsEnabled bool) {
	r.Get("/healthz", handlers.healthHandler.health())
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}
