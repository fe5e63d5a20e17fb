package handlers

import (
	"net/http"
	"testing"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteMeRemovesOwnAccount(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*models.User{
		7: {ID: 7, Name: "Alice"},
		8: {ID: 8, Name: "Bob"},
	}}
	h := NewUserHandler(users)

	rec := performAs(t, h.DeleteMe, http.MethodDelete, "/users/me", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":true`)

	// only the authenticated user's account goes
	assert.Equal(t, []uint{7}, users.deleted)
	_, err := users.GetUserByID(7)
	assert.Error(t, err)
	_, err = users.GetUserByID(8)
	assert.NoError(t, err)
}
