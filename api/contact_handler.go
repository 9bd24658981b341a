package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 15 * time.Second

// ContactNotifier tells the site owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    ContactNotifier
}

func newContactHandler(contactRepo *database.ContactRepo, notifier ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

// submitMessage stores a contact form message and notifies the owner
// @Summary Submit contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body ContactInput true "Contact message"
// @Success 201 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid message"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /contact [post]
func (h contactHandler) submitMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ContactInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg := models.ContactMessage{
			Name:    trimmedPtr(input.Name),
			Email:   strings.TrimSpace(input.Email),
			Subject: trimmedPtr(input.Subject),
			Message: strings.TrimSpace(input.Message),
		}
		if err := h.contactRepo.Add(r.Context(), &msg); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create contact message", "contact message", err))
			return
		}

		h.logger.Info().Str("contactMessageID", msg.ID.String()).Msg("contact message received")
		h.notify(msg)
		h.responder.WriteJSONStatus(w, http.StatusCreated, StatusResponse{Status: "success", Message: "message sent"})
	}
}

// notify runs outside the request so a slow provider never delays or fails
// the submission.
func (h contactHandler) notify(msg models.ContactMessage) {
	if h.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.notifier.NotifyContact(ctx, msg); err != nil {
			h.logger.Error().Err(err).Str("contactMessageID", msg.ID.String()).Msg("contact notification failed")
		}
	}()
}

// getMessages lists contact messages newest first
// @Summary List contact messages
// @Tags Admin Contact
// @Produce json
// @Param search query string false "Subject search (2-200 characters)"
// @Param unread query bool false "Only unread messages"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (1-50)" default(12)
// @Success 200 {object} ContactListResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page or limit"
// @Router /admin/contact [get]
func (h contactHandler) getMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r, "")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		unread := false
		if raw := r.URL.Query().Get("unread"); raw != "" {
			if unread, err = strconv.ParseBool(raw); err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("unread", "must be true or false"))
				return
			}
		}

		page, err := h.contactRepo.FindAll(r.Context(), q, unread)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contact messages", "contact_messages", err))
			return
		}
		unreadCount, err := h.contactRepo.CountUnread(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count unread messages", "contact_messages", err))
			return
		}

		h.responder.WriteJSON(w, ContactListResponse{
			Items:       page.Items,
			Total:       page.Total,
			Page:        page.Page,
			TotalPages:  page.TotalPages,
			UnreadCount: unreadCount,
		})
	}
}

// markRead flags a contact message as read
// @Summary Mark contact message read
// @Tags Admin Contact
// @Produce json
// @Param contactMessageID path string true "Contact Message ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Contact message not found"
// @Router /admin/contact/{contactMessageID}/read [patch]
func (h contactHandler) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgID, err := pathID(r, "contactMessageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		found, err := h.contactRepo.MarkRead(r.Context(), msgID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("mark contact message read", "contact message", err))
			return
		}
		if !found {
			h.responder.WriteError(w, errs.NewNotFoundError("contact message not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "contact message marked as read"})
	}
}

// deleteMessage deletes a contact message
// @Summary Delete contact message
// @Tags Admin Contact
// @Produce json
// @Param contactMessageID path string true "Contact Message ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Contact message not found"
// @Router /admin/contact/{contactMessageID} [delete]
func (h contactHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgID, err := pathID(r, "contactMessageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.contactRepo.Delete(r.Context(), msgID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete contact message", "contact message", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("contact message not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "contact message deleted successfully"})
	}
}
