package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hajobja/hajobja-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"permission", services.ErrPermission, http.StatusForbidden},
		{"quota", services.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"self vouch", services.ErrSelfVouch, http.StatusBadRequest},
		{"vouch missing", services.ErrVouchMissing, http.StatusConflict},
		{"already done", services.ErrAlreadyDone, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, "test", tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestWriteInsertError(t *testing.T) {
	t.Run("duplicate key maps to 409 with the given message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		writeInsertError(rec, "test", dup, "ข้อมูลนี้ถูกใช้แล้ว")

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "ข้อมูลนี้ถูกใช้แล้ว", resp.Message)
	})

	t.Run("other errors fall through to the generic mapping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeInsertError(rec, "test", errors.New("boom"), "ข้อมูลนี้ถูกใช้แล้ว")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, "test", errors.New("pq: connection refused to 10.0.0.5"))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestDecodeBody(t *testing.T) {
	t.Run("valid body passes validation", func(t *testing.T) {
		body := `{"username":"somchai","password":"secret"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var req SigninRequest
		ok := decodeBody(rec, r, &req)
		assert.True(t, ok)
		assert.Equal(t, "somchai", req.Username)
	})

	t.Run("missing required field fails", func(t *testing.T) {
		body := `{"username":"somchai"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var req SigninRequest
		ok := decodeBody(rec, r, &req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json fails", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		var req SigninRequest
		ok := decodeBody(rec, r, &req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("signup rejects short passwords", func(t *testing.T) {
		body := `{"username":"somchai","email":"s@example.com","password":"short","display_name":"Somchai"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var req SignupRequest
		ok := decodeBody(rec, r, &req)
		assert.False(t, ok)
	})
}
