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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category" validate:"required,max=60"`
	SubCategory string `json:"sub_category" validate:"omitempty,max=60"`
	Province    string `json:"province" validate:"required,max=50"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Wage        string `json:"wage" validate:"omitempty,max=100"`
	DateNeeded  string `json:"date_needed" validate:"omitempty,max=100"`
}

type ListResponse struct {
	Success    bool        `json:"success"`
	Items      interface{} `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// checkListingContent runs the blacklist over the user-entered text fields.
func checkListingContent(w http.ResponseWriter, fields ...string) bool {
	joined := ""
	for _, f := range fields {
		joined += f + " "
	}
	if blocked, words := services.ContainsBlacklistedWord(joined); blocked {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "ข้อความมีคำที่ไม่ได้รับอนุญาต",
			Data:    words,
		})
		return false
	}
	return true
}

// CreateJob creates a job listing after cooldown/quota checks and stamps the
// owner's lastJobPostDate.
func CreateJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req JobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Description) {
		return
	}

	check, err := services.CheckJobPostingLimits(r.Context(), user)
	if err != nil {
		writeServiceError(w, "job posting limits", err)
		return
	}
	if !check.CanPost {
		writeMessage(w, http.StatusTooManyRequests, check.Message)
		return
	}

	now := time.Now()
	job := models.Job{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		UserID:            user.ID,
		AuthorDisplayName: user.DisplayName,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		SubCategory:       req.SubCategory,
		Province:          req.Province,
		Location:          req.Location,
		Wage:              req.Wage,
		DateNeeded:        req.DateNeeded,
		IsExpired:         false,
		ExpiresAt:         now.Add(services.ListingLifetime),
	}

	if _, err := database.DB.Collection(database.CollJobs).InsertOne(r.Context(), job); err != nil {
		writeServiceError(w, "job insert", err)
		return
	}

	if _, err := database.DB.Collection(database.CollUsers).UpdateOne(r.Context(), bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"postingLimits.lastJobPostDate": now},
	}); err != nil {
		services.LogError("job post date", err)
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "created", Topic: services.FeedTopicJobs, EntityID: job.ID.Hex(), Title: job.Title,
	})

	writeData(w, http.StatusCreated, job)
}

func loadJob(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	jobID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid job id")
		return nil, false
	}

	var job models.Job
	err = database.DB.Collection(database.CollJobs).FindOne(r.Context(), bson.M{"_id": jobID}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบประกาศงานนี้")
		return nil, false
	}
	if err != nil {
		writeServiceError(w, "job lookup", err)
		return nil, false
	}
	return &job, true
}

// GetJob returns a single job listing.
func GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, job)
}

// UpdateJob lets the owner edit listing fields. Editing refreshes updatedAt,
// which also counts as owner activity for cleanup purposes.
func UpdateJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if job.UserID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขประกาศนี้")
		return
	}

	var req JobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Description) {
		return
	}

	_, err := database.DB.Collection(database.CollJobs).UpdateOne(r.Context(), bson.M{"_id": job.ID}, bson.M{
		"$set": bson.M{
			"title":       req.Title,
			"description": req.Description,
			"category":    req.Category,
			"subCategory": req.SubCategory,
			"province":    req.Province,
			"location":    req.Location,
			"wage":        req.Wage,
			"dateNeeded":  req.DateNeeded,
			"updatedAt":   time.Now(),
		},
	})
	if err != nil {
		writeServiceError(w, "job update", err)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "updated", Topic: services.FeedTopicJobs, EntityID: job.ID.Hex(), Title: req.Title,
	})

	writeMessage(w, http.StatusOK, "บันทึกประกาศแล้ว")
}

// DeleteJob removes a listing (owner or admin) along with its interest rows.
func DeleteJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if job.UserID != user.ID && user.Role != models.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบประกาศนี้")
		return
	}

	if _, err := database.DB.Collection(database.CollJobs).DeleteOne(r.Context(), bson.M{"_id": job.ID}); err != nil {
		writeServiceError(w, "job delete", err)
		return
	}
	if _, err := database.DB.Collection(database.CollInterests).DeleteMany(r.Context(), bson.M{"targetId": job.ID}); err != nil {
		services.LogError("job delete interests", err)
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "deleted", Topic: services.FeedTopicJobs, EntityID: job.ID.Hex(),
	})

	writeMessage(w, http.StatusOK, "ลบประกาศแล้ว")
}

// ToggleJobHired flips isHired; owner only.
func ToggleJobHired(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if job.UserID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขประกาศนี้")
		return
	}

	newValue, err := services.ToggleListingFlag(r.Context(), database.CollJobs, job.ID, "isHired")
	if err != nil {
		writeServiceError(w, "toggle hired", err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"is_hired": newValue})
}

// BumpJob refreshes the listing's recency, subject to the 30-day cooldown.
func BumpJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	jobID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	check, err := services.BumpListing(r.Context(), user, database.CollJobs, jobID)
	if err != nil {
		writeServiceError(w, "bump job", err)
		return
	}
	if !check.CanPost {
		writeMessage(w, http.StatusTooManyRequests, check.Message)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "bumped", Topic: services.FeedTopicJobs, EntityID: jobID.Hex(),
	})

	writeMessage(w, http.StatusOK, "ดันประกาศแล้ว")
}

// listingFilter builds the shared filter for job/helper listing queries.
func listingFilter(r *http.Request) bson.M {
	q := r.URL.Query()
	filter := bson.M{"isExpired": false}
	if v := q.Get("category"); v != "" {
		filter["category"] = v
	}
	if v := q.Get("sub_category"); v != "" {
		filter["subCategory"] = v
	}
	if v := q.Get("province"); v != "" {
		filter["province"] = v
	}
	return filter
}

// ListJobs returns one page of non-expired jobs with filters and an opaque cursor.
func ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := listingFilter(r)
	if v := r.URL.Query().Get("search"); v != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": v, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": v, "$options": "i"}},
		}
	}

	cursor, err := services.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid cursor")
		return
	}

	jobs := []models.Job{}
	if err := services.FindListingPage(r.Context(), database.CollJobs, filter, cursor, &jobs); err != nil {
		writeServiceError(w, "list jobs", err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Items:      jobs,
		NextCursor: services.NextCursorFromJob(jobs),
	})
}

type JobApplicationRequest struct {
	Pitch    string `json:"pitch" validate:"omitempty,max=2000"`
	AudioURL string `json:"audio_url" validate:"omitempty,url,max=500"`
}

// ApplyToJob records an application; one per applicant per job.
func ApplyToJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if job.UserID == user.ID {
		writeMessage(w, http.StatusBadRequest, "ไม่สามารถสมัครงานของตัวเองได้")
		return
	}

	var req JobApplicationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	application := models.JobApplication{
		ID:          primitive.NewObjectID(),
		JobID:       job.ID,
		ApplicantID: user.ID,
		Pitch:       req.Pitch,
		AudioURL:    req.AudioURL,
		SubmittedAt: time.Now(),
	}

	if _, err := database.DB.Collection(database.CollJobApplications).InsertOne(r.Context(), application); err != nil {
		writeInsertError(w, "job application", err, "คุณสมัครงานนี้ไปแล้ว")
		return
	}

	writeData(w, http.StatusCreated, application)
}

// ListJobApplications returns applicants for a job; owner only.
func ListJobApplications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if job.UserID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ดูผู้สมัครของประกาศนี้")
		return
	}

	opts := options.Find().SetSort(bson.M{"submittedAt": -1})
	cur, err := database.DB.Collection(database.CollJobApplications).Find(r.Context(), bson.M{"jobId": job.ID}, opts)
	if err != nil {
		writeServiceError(w, "list applications", err)
		return
	}
	defer cur.Close(r.Context())

	applications := []models.JobApplication{}
	if err := cur.All(r.Context(), &applications); err != nil {
		writeServiceError(w, "list applications", err)
		return
	}

	writeData(w, http.StatusOK, applications)
}
