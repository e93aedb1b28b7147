package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"bearer with padding", "Bearer   abc123  ", "abc123"},
		{"missing prefix", "abc123", ""},
		{"empty header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBearerToken(tt.header))
		})
	}
}

func TestUserFromContext(t *testing.T) {
	t.Run("empty context returns nil", func(t *testing.T) {
		assert.Nil(t, UserFromContext(context.Background()))
	})

	t.Run("round trip", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleMember}
		ctx := WithUser(context.Background(), user)
		assert.Equal(t, user, UserFromContext(ctx))
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("matching role passes", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithUser(r.Context(), user))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleMember}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithUser(r.Context(), user))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no user gets 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
