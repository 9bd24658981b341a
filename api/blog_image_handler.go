package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/media"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogImageHandler struct {
	responder     Responder
	logger        zerolog.Logger
	blogImageRepo *database.BlogImageRepo
}

func newBlogImageHandler(blogImageRepo *database.BlogImageRepo) blogImageHandler {
	logger := log.With().Str("handlerName", "blogImageHandler").Logger()

	return blogImageHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		blogImageRepo: blogImageRepo,
	}
}

func blogImageURL(image models.BlogImage) string {
	return "/api/blog/images/" + image.ID.String()
}

func toBlogImageInfo(image models.BlogImage) BlogImageInfo {
	return BlogImageInfo{
		ID:        image.ID.String(),
		ImageType: image.ImageType,
		AltText:   image.AltText,
		CreatedAt: image.CreatedAt,
		URL:       blogImageURL(image),
	}
}

// getImages lists the blog media library
// @Summary List blog images
// @Tags Admin Blog Images
// @Produce json
// @Success 200 {array} BlogImageInfo
// @Router /admin/blog/images [get]
func (h blogImageHandler) getImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := h.blogImageRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog images", "blog_images", err))
			return
		}

		infos := make([]BlogImageInfo, 0, len(images))
		for _, image := range images {
			infos = append(infos, toBlogImageInfo(image))
		}
		h.responder.WriteJSON(w, infos)
	}
}

// uploadImage stores a new image in the media library
// @Summary Upload blog image
// @Description The returned url can be embedded in post content
// @Tags Admin Blog Images
// @Accept json
// @Produce json
// @Param image body BlogImageInput true "Base64 image"
// @Success 201 {object} BlogImageInfo
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid image"
// @Router /admin/blog/images [post]
func (h blogImageHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input BlogImageInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		data, err := media.ValidateImage(input.Image, input.ImageType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		image := models.BlogImage{
			Image:     data,
			ImageType: input.ImageType,
			AltText:   trimmedPtr(input.AltText),
		}
		if err := h.blogImageRepo.Add(r.Context(), &image); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog image", "blog image", err))
			return
		}

		h.logger.Info().Str("blogImageID", image.ID.String()).Int("bytes", len(data)).Msg("blog image uploaded")
		h.responder.WriteJSONStatus(w, http.StatusCreated, toBlogImageInfo(image))
	}
}

// deleteImage removes an image from the media library
// @Summary Delete blog image
// @Tags Admin Blog Images
// @Produce json
// @Param blogImageID path string true "Blog Image ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Blog image not found"
// @Router /admin/blog/images/{blogImageID} [delete]
func (h blogImageHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imageID, err := pathID(r, "blogImageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.blogImageRepo.Delete(r.Context(), imageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog image", "blog image", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("blog image not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "blog image deleted successfully"})
	}
}
