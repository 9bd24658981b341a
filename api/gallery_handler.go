package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type galleryHandler struct {
	responder   Responder
	logger      zerolog.Logger
	galleryRepo *database.GalleryRepo
}

func newGalleryHandler(galleryRepo *database.GalleryRepo) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()

	return galleryHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		galleryRepo: galleryRepo,
	}
}

// getGalleryItems lists gallery items newest first
// @Summary List gallery items
// @Description Image bytes are omitted, use the image endpoint
// @Tags Gallery
// @Produce json
// @Param search query string false "Title search (2-200 characters)"
// @Param tags query string false "Comma separated tags, all must match"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (1-50)" default(12)
// @Success 200 {object} database.Page[models.GalleryItem]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page or limit"
// @Router /gallery [get]
func (h galleryHandler) getGalleryItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r, "tags")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.galleryRepo.FindAll(r.Context(), q)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gallery items", "gallery_items", err))
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

// getTags lists every distinct gallery tag
// @Summary List gallery tags
// @Tags Gallery
// @Produce json
// @Success 200 {object} TagsResponse
// @Router /gallery/tags [get]
func (h galleryHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.galleryRepo.Tags(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "gallery_items", err))
			return
		}
		h.responder.WriteJSON(w, TagsResponse{Tags: tags})
	}
}

// getGalleryItem retrieves a gallery item including its image
// @Summary Get gallery item
// @Tags Admin Gallery
// @Produce json
// @Param galleryItemID path string true "Gallery Item ID" format(uuid)
// @Success 200 {object} models.GalleryItem
// @Failure 404 {object} ErrorResponse "Not Found - Gallery item not found"
// @Router /admin/gallery/{galleryItemID} [get]
func (h galleryHandler) getGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "galleryItemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.galleryRepo.FindByID(r.Context(), itemID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gallery item", "gallery item", err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("gallery item not found"))
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

// createGalleryItem creates an image or video moment
// @Summary Create gallery item
// @Description IMAGE items need an image and no videoUrl, VIDEO items need a videoUrl and no image
// @Tags Admin Gallery
// @Accept json
// @Produce json
// @Param galleryItem body GalleryItemInput true "Gallery item data"
// @Success 201 {object} models.GalleryItem
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gallery item data"
// @Router /admin/gallery [post]
func (h galleryHandler) createGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input GalleryItemInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var item models.GalleryItem
		if err := applyGalleryInput(&item, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.galleryRepo.Add(r.Context(), &item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create gallery item", "gallery item", err))
			return
		}

		h.logger.Info().Str("galleryItemID", item.ID.String()).Str("mediaType", string(item.MediaType)).Msg("gallery item created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, item)
	}
}

// updateGalleryItem replaces the fields of a gallery item
// @Summary Update gallery item
// @Description Omitting image keeps the stored image. Switching to VIDEO drops it.
// @Tags Admin Gallery
// @Accept json
// @Produce json
// @Param galleryItemID path string true "Gallery Item ID" format(uuid)
// @Param galleryItem body GalleryItemInput true "Updated gallery item data"
// @Success 200 {object} models.GalleryItem
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gallery item data"
// @Failure 404 {object} ErrorResponse "Not Found - Gallery item not found"
// @Router /admin/gallery/{galleryItemID} [put]
func (h galleryHandler) updateGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "galleryItemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input GalleryItemInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.galleryRepo.FindByID(r.Context(), itemID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gallery item", "gallery item", err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("gallery item not found"))
			return
		}

		if err := applyGalleryInput(item, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.galleryRepo.Update(r.Context(), item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update gallery item", "gallery item", err))
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

// deleteGalleryItem deletes a gallery item by ID
// @Summary Delete gallery item
// @Tags Admin Gallery
// @Produce json
// @Param galleryItemID path string true "Gallery Item ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Gallery item not found"
// @Router /admin/gallery/{galleryItemID} [delete]
func (h galleryHandler) deleteGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "galleryItemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.galleryRepo.Delete(r.Context(), itemID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete gallery item", "gallery item", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("gallery item not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "gallery item deleted successfully"})
	}
}

// applyGalleryInput copies validated input onto item and enforces that an
// item holds an image or a video, never both.
func applyGalleryInput(item *models.GalleryItem, input GalleryItemInput) error {
	image, imageType, err := imageUpload(input.Image, input.ImageType)
	if err != nil {
		return err
	}
	videoURL := trimmedPtr(input.VideoURL)

	switch input.MediaType {
	case models.MediaImage:
		if videoURL != nil {
			return errs.NewInvalidFieldError("videoUrl", "must be empty for IMAGE items")
		}
		if image == nil && len(item.Image) == 0 {
			return errs.NewMissingRequiredFieldError("image")
		}
		if image != nil {
			item.Image = image
			item.ImageType = imageType
		}
		item.VideoURL = nil
	case models.MediaVideo:
		if videoURL == nil {
			return errs.NewMissingRequiredFieldError("videoUrl")
		}
		if image != nil {
			return errs.NewInvalidFieldError("image", "must be empty for VIDEO items")
		}
		item.Image = nil
		item.ImageType = nil
		item.VideoURL = videoURL
	}

	item.MediaType = input.MediaType
	item.Title = strings.TrimSpace(input.Title)
	item.Description = trimmedPtr(input.Description)
	item.Caption = trimmedPtr(input.Caption)
	item.Tags = strings.TrimSpace(input.Tags)
	item.HasImage = len(item.Image) > 0
	return nil
}
