package handlers

import (
	"net/http"

	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ToggleInterestRequest struct {
	TargetID   string `json:"target_id" validate:"required,len=24,hexadecimal"`
	TargetType string `json:"target_type" validate:"required,oneof=job helperProfile"`
}

// ToggleInterest flips the caller's interest in a job or helper profile.
func ToggleInterest(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req ToggleInterestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid target id")
		return
	}

	result, err := services.ToggleInterest(r.Context(), user.ID, targetID, models.InterestTargetType(req.TargetType))
	if err != nil {
		writeServiceError(w, "toggle interest", err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// ListMyInterests returns the caller's interest records.
func ListMyInterests(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	interests, err := services.ListUserInterests(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list interests", err)
		return
	}

	writeData(w, http.StatusOK, interests)
}
