package handlers

import (
	"net/http"

	"github.com/hajobja/hajobja-backend/internal/config"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// maxUploadBytes caps multipart uploads (images and short audio clips).
const maxUploadBytes = 10 << 20

// uploadFolderFor resolves the owner-scoped storage folder for a kind. The
// caller's id is baked into the path so users can only write under their own
// prefix; job application audio is keyed by the job instead.
func uploadFolderFor(r *http.Request, userID primitive.ObjectID, kind string) (string, bool) {
	switch kind {
	case "profile_image":
		return services.ProfileImageFolder(userID.Hex()), true
	case "webboard_image":
		return services.WebboardImageFolder(userID.Hex()), true
	case "blog_cover":
		return services.BlogCoverFolder(userID.Hex()), true
	case "job_application_audio":
		jobIDHex := r.URL.Query().Get("job_id")
		jobID, err := primitive.ObjectIDFromHex(jobIDHex)
		if err != nil {
			return "", false
		}
		count, err := database.DB.Collection(database.CollJobs).CountDocuments(r.Context(), bson.M{"_id": jobID})
		if err != nil || count == 0 {
			return "", false
		}
		return services.JobApplicationAudioFolder(jobIDHex), true
	}
	return "", false
}

// UploadFile accepts a multipart file and stores it in Cloudinary under the
// folder matching the `kind` query parameter. Returns the secure URL; the
// caller then attaches it to a profile, post or application.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		writeMessage(w, http.StatusServiceUnavailable, "ระบบอัปโหลดยังไม่พร้อมใช้งาน")
		return
	}

	user := middleware.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder, ok := uploadFolderFor(r, user.ID, r.URL.Query().Get("kind"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Unknown upload kind")
		return
	}

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fileHeader, folder)
	if err != nil {
		writeServiceError(w, "upload", err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"url": url})
}
