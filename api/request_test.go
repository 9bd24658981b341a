package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_SplitsTags(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/gallery?tags=travel,+,food+&tags=+demo&search=sun", nil)

	q, err := listQuery(req, "tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"travel", "food", "demo"}, q.Tags)
	assert.Equal(t, "sun", q.Search)
}

func TestListQuery_NoTagParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/contact?tags=ignored&page=2&limit=5", nil)

	q, err := listQuery(req, "")
	require.NoError(t, err)
	assert.Empty(t, q.Tags)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.Limit)
}
