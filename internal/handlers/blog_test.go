package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanEditBlogPost(t *testing.T) {
	authorID := primitive.NewObjectID()
	post := &models.BlogPost{AuthorID: authorID}

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"author", &models.User{ID: authorID, Role: models.RoleWriter}, true},
		{"admin", &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, true},
		{"other writer", &models.User{ID: primitive.NewObjectID(), Role: models.RoleWriter}, false},
		{"moderator", &models.User{ID: primitive.NewObjectID(), Role: models.RoleModerator}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canEditBlogPost(tt.user, post))
		})
	}
}

func TestOptionalUser(t *testing.T) {
	t.Run("no authorization header resolves to nil", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/blog/slug/test", nil)
		assert.Nil(t, optionalUser(r))
	})

	t.Run("non-bearer header resolves to nil", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/blog/slug/test", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Nil(t, optionalUser(r))
	})

	t.Run("authenticated context user wins without a session lookup", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleWriter}
		r := httptest.NewRequest(http.MethodGet, "/api/blog/slug/test", nil)
		r = r.WithContext(middleware.WithUser(r.Context(), user))

		got := optionalUser(r)
		assert.Equal(t, user, got)
	})
}
