package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type HelperProfileRequest struct {
	Title            string `json:"title" validate:"required,max=120"`
	Details          string `json:"details" validate:"required,max=5000"`
	Category         string `json:"category" validate:"required,max=60"`
	SubCategory      string `json:"sub_category" validate:"omitempty,max=60"`
	Province         string `json:"province" validate:"required,max=50"`
	Area             string `json:"area" validate:"omitempty,max=200"`
	AvailabilityFrom string `json:"availability_from" validate:"omitempty,max=100"`
	AvailabilityTo   string `json:"availability_to" validate:"omitempty,max=100"`
	VoiceIntroURL    string `json:"voice_intro_url" validate:"omitempty,url,max=500"`
}

// CreateHelperProfile creates an "I'm looking for work" listing, subject to
// the same cooldown/quota scheme as jobs but with the helper quotas.
func CreateHelperProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req HelperProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Details) {
		return
	}

	check, err := services.CheckHelperProfileLimits(r.Context(), user)
	if err != nil {
		writeServiceError(w, "helper posting limits", err)
		return
	}
	if !check.CanPost {
		writeMessage(w, http.StatusTooManyRequests, check.Message)
		return
	}

	now := time.Now()
	profile := models.HelperProfile{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		UserID:            user.ID,
		AuthorDisplayName: user.DisplayName,
		Title:             req.Title,
		Details:           req.Details,
		Category:          req.Category,
		SubCategory:       req.SubCategory,
		Province:          req.Province,
		Area:              req.Area,
		AvailabilityFrom:  req.AvailabilityFrom,
		AvailabilityTo:    req.AvailabilityTo,
		VoiceIntroURL:     req.VoiceIntroURL,
		IsExpired:         false,
		ExpiresAt:         now.Add(services.ListingLifetime),
	}

	if _, err := database.DB.Collection(database.CollHelperProfiles).InsertOne(r.Context(), profile); err != nil {
		writeServiceError(w, "helper insert", err)
		return
	}

	if _, err := database.DB.Collection(database.CollUsers).UpdateOne(r.Context(), bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"postingLimits.lastHelperProfileDate": now},
	}); err != nil {
		services.LogError("helper post date", err)
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "created", Topic: services.FeedTopicHelpers, EntityID: profile.ID.Hex(), Title: profile.Title,
	})

	writeData(w, http.StatusCreated, profile)
}

func loadHelperProfile(w http.ResponseWriter, r *http.Request) (*models.HelperProfile, bool) {
	profileID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid profile id")
		return nil, false
	}

	var profile models.HelperProfile
	err = database.DB.Collection(database.CollHelperProfiles).FindOne(r.Context(), bson.M{"_id": profileID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบโปรไฟล์ผู้ช่วยนี้")
		return nil, false
	}
	if err != nil {
		writeServiceError(w, "helper lookup", err)
		return nil, false
	}
	return &profile, true
}

// GetHelperProfile returns a single helper profile.
func GetHelperProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := loadHelperProfile(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, profile)
}

// UpdateHelperProfile lets the owner edit their profile listing.
func UpdateHelperProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	profile, ok := loadHelperProfile(w, r)
	if !ok {
		return
	}
	if profile.UserID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขโปรไฟล์นี้")
		return
	}

	var req HelperProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Details) {
		return
	}

	_, err := database.DB.Collection(database.CollHelperProfiles).UpdateOne(r.Context(), bson.M{"_id": profile.ID}, bson.M{
		"$set": bson.M{
			"title":            req.Title,
			"details":          req.Details,
			"category":         req.Category,
			"subCategory":      req.SubCategory,
			"province":         req.Province,
			"area":             req.Area,
			"availabilityFrom": req.AvailabilityFrom,
			"availabilityTo":   req.AvailabilityTo,
			"voiceIntroURL":    req.VoiceIntroURL,
			"updatedAt":        time.Now(),
		},
	})
	if err != nil {
		writeServiceError(w, "helper update", err)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "updated", Topic: services.FeedTopicHelpers, EntityID: profile.ID.Hex(), Title: req.Title,
	})

	writeMessage(w, http.StatusOK, "บันทึกโปรไฟล์แล้ว")
}

// DeleteHelperProfile removes a profile (owner or admin) with its interest rows.
func DeleteHelperProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	profile, ok := loadHelperProfile(w, r)
	if !ok {
		return
	}
	if profile.UserID != user.ID && user.Role != models.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบโปรไฟล์นี้")
		return
	}

	if _, err := database.DB.Collection(database.CollHelperProfiles).DeleteOne(r.Context(), bson.M{"_id": profile.ID}); err != nil {
		writeServiceError(w, "helper delete", err)
		return
	}
	if _, err := database.DB.Collection(database.CollInterests).DeleteMany(r.Context(), bson.M{"targetId": profile.ID}); err != nil {
		services.LogError("helper delete interests", err)
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "deleted", Topic: services.FeedTopicHelpers, EntityID: profile.ID.Hex(),
	})

	writeMessage(w, http.StatusOK, "ลบโปรไฟล์แล้ว")
}

// ToggleHelperUnavailable flips isUnavailable; owner only.
func ToggleHelperUnavailable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	profile, ok := loadHelperProfile(w, r)
	if !ok {
		return
	}
	if profile.UserID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขโปรไฟล์นี้")
		return
	}

	newValue, err := services.ToggleListingFlag(r.Context(), database.CollHelperProfiles, profile.ID, "isUnavailable")
	if err != nil {
		writeServiceError(w, "toggle unavailable", err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"is_unavailable": newValue})
}

// BumpHelperProfile refreshes the profile's recency, subject to the cooldown.
func BumpHelperProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	profileID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	check, err := services.BumpListing(r.Context(), user, database.CollHelperProfiles, profileID)
	if err != nil {
		writeServiceError(w, "bump helper", err)
		return
	}
	if !check.CanPost {
		writeMessage(w, http.StatusTooManyRequests, check.Message)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "bumped", Topic: services.FeedTopicHelpers, EntityID: profileID.Hex(),
	})

	writeMessage(w, http.StatusOK, "ดันโปรไฟล์แล้ว")
}

// ListHelperProfiles returns one page of non-expired helper profiles.
func ListHelperProfiles(w http.ResponseWriter, r *http.Request) {
	filter := listingFilter(r)
	if v := r.URL.Query().Get("search"); v != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": v, "$options": "i"}},
			bson.M{"details": bson.M{"$regex": v, "$options": "i"}},
		}
	}

	cursor, err := services.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid cursor")
		return
	}

	profiles := []models.HelperProfile{}
	if err := services.FindListingPage(r.Context(), database.CollHelperProfiles, filter, cursor, &profiles); err != nil {
		writeServiceError(w, "list helpers", err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Items:      profiles,
		NextCursor: services.NextCursorFromHelper(profiles),
	})
}

// ContactHelper appends a row to the PostgreSQL interaction log and returns
// the helper's contact details. The log is append-only.
func ContactHelper(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	profile, ok := loadHelperProfile(w, r)
	if !ok {
		return
	}
	if profile.UserID == user.ID {
		writeMessage(w, http.StatusBadRequest, "ไม่สามารถติดต่อตัวเองได้")
		return
	}

	helper, err := services.GetUserByID(r.Context(), profile.UserID)
	if err != nil {
		writeServiceError(w, "contact helper lookup", err)
		return
	}

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		INSERT INTO interactions (id, created_at, helper_profile_id, employer_user_id, helper_user_id, type)
		VALUES ($1, NOW(), $2, $3, $4, $5)`,
		uuid.NewString(), profile.ID.Hex(), user.ID.Hex(), profile.UserID.Hex(), "contact_helper",
	)
	if err != nil {
		writeServiceError(w, "interaction insert", err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{
		"display_name": helper.DisplayName,
		"mobile":       helper.Mobile,
		"line_id":      helper.LineID,
	})
}
