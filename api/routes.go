package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

// setupPublicRoutes registers the read-only site API plus the two visitor
// write paths, which are rate limited.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, limiter *RateLimiter) {
	r.Get("/health", handlers.healthHandler.getHealth())

	// Project Handler endpoints
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/projects/tech-stacks", handlers.projectHandler.getTechStacks())
	r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
	r.Get("/projects/{projectID}/image", handlers.imageHandler.getProjectImage())

	// Blog Post Handler endpoints
	r.Get("/blog/posts", handlers.blogPostHandler.getPublishedPosts())
	r.Get("/blog/posts/slug/{slug}", handlers.blogPostHandler.getPostBySlug())
	r.Get("/blog/posts/{blogPostID}/cover", handlers.imageHandler.getBlogCover())
	r.With(limiter.Limit("comment")).Post("/blog/posts/{blogPostID}/comments", handlers.blogPostHandler.addComment())
	r.Get("/blog/tags", handlers.blogPostHandler.getTags())
	r.Get("/blog/images/{blogImageID}", handlers.imageHandler.getBlogImage())

	// Gallery Handler endpoints
	r.Get("/gallery", handlers.galleryHandler.getGalleryItems())
	r.Get("/gallery/tags", handlers.galleryHandler.getTags())
	r.Get("/gallery/{galleryItemID}/image", handlers.imageHandler.getGalleryImage())

	// Contact Handler endpoints
	r.With(limiter.Limit("contact")).Post("/contact", handlers.contactHandler.submitMessage())
}

// setupAdminRoutes registers every mutation and every draft-revealing read.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireAdmin)

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/blog/posts", handlers.blogPostHandler.getAllPosts())
		r.Post("/blog/posts", handlers.blogPostHandler.createBlogPost())
		r.Get("/blog/posts/{blogPostID}", handlers.blogPostHandler.getPost())
		r.Get("/blog/posts/{blogPostID}/comments", handlers.blogPostHandler.getPostWithComments())
		r.Put("/blog/posts/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blog/posts/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())
		r.Delete("/blog/comments/{commentID}", handlers.blogPostHandler.deleteComment())

		r.Get("/blog/images", handlers.blogImageHandler.getImages())
		r.Post("/blog/images", handlers.blogImageHandler.uploadImage())
		r.Delete("/blog/images/{blogImageID}", handlers.blogImageHandler.deleteImage())

		r.Post("/gallery", handlers.galleryHandler.createGalleryItem())
		r.Get("/gallery/{galleryItemID}", handlers.galleryHandler.getGalleryItem())
		r.Put("/gallery/{galleryItemID}", handlers.galleryHandler.updateGalleryItem())
		r.Delete("/gallery/{galleryItemID}", handlers.galleryHandler.deleteGalleryItem())

		r.Get("/contact", handlers.contactHandler.getMessages())
		r.Patch("/contact/{contactMessageID}/read", handlers.contactHandler.markRead())
		r.Delete("/contact/{contactMessageID}", handlers.contactHandler.deleteMessage())
	})
}

// setupAdminPages guards the admin UI. Admin requests are forwarded to the
// upstream that renders it, if one is configured.
func setupAdminPages(r chi.Router, authMiddleware authMiddleware, upstream string) {
	pages := adminPagesHandler(upstream)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.guardAdminPages)
		r.Handle("/", pages)
		r.Handle("/*", pages)
	})
}

func adminPagesHandler(upstream string) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "adminPages").Logger())
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("page not found"))
	})
	if upstream == "" {
		return notFound
	}

	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		log.Error().Err(err).Str("upstream", upstream).Msg("invalid ADMIN_UPSTREAM_URL, admin pages disabled")
		return notFound
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		responder.WriteError(w, errs.NewUpstreamError("admin ui", err))
	}
	return proxy
}
