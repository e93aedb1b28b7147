package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=60"`
	Mobile      string `json:"mobile" validate:"omitempty,max=20"`
	LineID      string `json:"line_id" validate:"omitempty,max=50"`
	AboutMe     string `json:"about_me" validate:"omitempty,max=2000"`
	Province    string `json:"province" validate:"omitempty,max=50"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url,max=500"`
}

// PublicProfile is the subset of a user document visible to everyone.
type PublicProfile struct {
	ID               primitive.ObjectID `json:"id"`
	DisplayName      string             `json:"display_name"`
	PhotoURL         string             `json:"photo_url,omitempty"`
	AboutMe          string             `json:"about_me,omitempty"`
	Province         string             `json:"province,omitempty"`
	Role             models.UserRole    `json:"role"`
	HasActivityBadge bool               `json:"has_activity_badge"`
	VouchInfo        models.VouchInfo   `json:"vouch_info"`
	CreatedAt        time.Time          `json:"created_at"`
}

// GetPublicProfile returns another user's public profile with vouch counters.
func GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := services.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "public profile", err)
		return
	}

	writeData(w, http.StatusOK, PublicProfile{
		ID:               user.ID,
		DisplayName:      user.DisplayName,
		PhotoURL:         user.PhotoURL,
		AboutMe:          user.AboutMe,
		Province:         user.Province,
		Role:             user.Role,
		HasActivityBadge: user.HasActivityBadge,
		VouchInfo:        user.VouchInfo,
		CreatedAt:        user.CreatedAt,
	})
}

// UpdateProfile lets the authenticated user edit their own profile fields.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if blocked, words := services.ContainsBlacklistedWord(req.DisplayName + " " + req.AboutMe); blocked {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "ข้อความมีคำที่ไม่ได้รับอนุญาต",
			Data:    words,
		})
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.DisplayName != "" {
		set["displayName"] = req.DisplayName
	}
	if req.Mobile != "" {
		set["mobile"] = req.Mobile
	}
	if req.LineID != "" {
		set["lineId"] = req.LineID
	}
	if req.AboutMe != "" {
		set["aboutMe"] = req.AboutMe
	}
	if req.Province != "" {
		set["province"] = req.Province
	}
	if req.PhotoURL != "" {
		set["photoURL"] = req.PhotoURL
	}

	if _, err := database.DB.Collection(database.CollUsers).UpdateOne(r.Context(), bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
		writeServiceError(w, "profile update", err)
		return
	}

	writeMessage(w, http.StatusOK, "บันทึกข้อมูลแล้ว")
}

// ToggleSavePost saves/unsaves a webboard post on the user document.
func ToggleSavePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	saved, err := services.ToggleSavedPost(r.Context(), user.ID, postID)
	if err != nil {
		writeServiceError(w, "toggle save", err)
		return
	}

	writeData(w, http.StatusOK, map[string]bool{"saved": saved})
}
