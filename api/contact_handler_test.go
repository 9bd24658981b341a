package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	sent chan models.ContactMessage
}

func (f *fakeNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	f.sent <- msg
	return nil
}

func contactBody(subject string) map[string]any {
	return map[string]any{
		"name":    "Grace",
		"email":   "grace@example.com",
		"subject": subject,
		"message": "Would love to chat about your rover project.",
	}
}

func TestSubmitContact_NotifiesOwner(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan models.ContactMessage, 1)}
	env := newTestEnv(t, nil, WithNotifier(notifier))

	rec := env.do(t, http.MethodPost, "/api/contact", contactBody("Collaboration"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	select {
	case msg := <-notifier.sent:
		assert.Equal(t, "grace@example.com", msg.Email)
		require.NotNil(t, msg.Subject)
		assert.Equal(t, "Collaboration", *msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestSubmitContact_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	bad := contactBody("Hi")
	bad["email"] = "not-an-email"
	rec := env.do(t, http.MethodPost, "/api/contact", bad, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decode[ErrorResponse](t, rec).Field)

	empty := contactBody("Hi")
	empty["message"] = ""
	rec = env.do(t, http.MethodPost, "/api/contact", empty, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message", decode[ErrorResponse](t, rec).Field)
}

func TestContactAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	for _, subject := range []string{"First", "Second", "Third"} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/contact", contactBody(subject), "").Code)
	}

	rec := env.do(t, http.MethodGet, "/api/admin/contact", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ContactListResponse](t, rec)
	require.Len(t, list.Items, 3)
	assert.EqualValues(t, 3, list.UnreadCount)
	id := list.Items[0].ID.String()

	rec = env.do(t, http.MethodPatch, "/api/admin/contact/"+id+"/read", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/contact?unread=true", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[ContactListResponse](t, rec)
	assert.EqualValues(t, 2, list.Total)
	assert.EqualValues(t, 2, list.UnreadCount)
	for _, msg := range list.Items {
		assert.False(t, msg.Read)
	}

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/admin/contact?unread=maybe", nil, admin).Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/contact/"+id, nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPatch, "/api/admin/contact/"+id+"/read", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
