package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type imageFinder func(ctx context.Context, id uuid.UUID) (*database.StoredImage, error)

// imageHandler serves stored image bytes for every entity that carries one.
type imageHandler struct {
	responder     Responder
	logger        zerolog.Logger
	projectRepo   *database.ProjectRepo
	blogPostRepo  *database.BlogPostRepo
	blogImageRepo *database.BlogImageRepo
	galleryRepo   *database.GalleryRepo
}

func newImageHandler(db database.Database) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		projectRepo:   db.ProjectRepo(),
		blogPostRepo:  db.BlogPostRepo(),
		blogImageRepo: db.BlogImageRepo(),
		galleryRepo:   db.GalleryRepo(),
	}
}

// getProjectImage serves a project image
// @Summary Project image bytes
// @Tags Images
// @Produce image/jpeg,image/png,image/gif,image/webp
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Image not found"
// @Router /projects/{projectID}/image [get]
func (h imageHandler) getProjectImage() http.HandlerFunc {
	return h.serve("projectID", "project", h.projectRepo.FindImage)
}

// getBlogCover serves the cover image of a blog post
// @Summary Blog cover bytes
// @Tags Images
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Image not found"
// @Router /blog/posts/{blogPostID}/cover [get]
func (h imageHandler) getBlogCover() http.HandlerFunc {
	return h.serve("blogPostID", "blog post", h.blogPostRepo.FindCoverImage)
}

// getBlogImage serves an image from the blog media library
// @Summary Blog library image bytes
// @Tags Images
// @Param blogImageID path string true "Blog Image ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Image not found"
// @Router /blog/images/{blogImageID} [get]
func (h imageHandler) getBlogImage() http.HandlerFunc {
	return h.serve("blogImageID", "blog image", h.blogImageRepo.FindImage)
}

// getGalleryImage serves the image of a gallery item
// @Summary Gallery image bytes
// @Tags Images
// @Param galleryItemID path string true "Gallery Item ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Image not found"
// @Router /gallery/{galleryItemID}/image [get]
func (h imageHandler) getGalleryImage() http.HandlerFunc {
	return h.serve("galleryItemID", "gallery item", h.galleryRepo.FindImage)
}

func (h imageHandler) serve(param, entity string, find imageFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, param)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		img, err := find(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("load "+entity+" image", err))
			return
		}
		if img == nil {
			h.responder.WriteError(w, errs.NewImageNotFoundError())
			return
		}
		h.responder.WriteImage(w, img)
	}
}
