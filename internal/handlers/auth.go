package handlers

import (
	"net/http"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"github.com/hajobja/hajobja-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=60"`
}

type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Signup registers a new member account.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	users := database.DB.Collection(database.CollUsers)

	count, err := users.CountDocuments(r.Context(), bson.M{"$or": bson.A{
		bson.M{"username": req.Username},
		bson.M{"email": req.Email},
	}})
	if err != nil {
		writeServiceError(w, "signup lookup", err)
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusConflict, "ชื่อผู้ใช้หรืออีเมลนี้ถูกใช้แล้ว")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeServiceError(w, "signup hash", err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashedPassword,
		DisplayName: req.DisplayName,
		Role:        models.RoleMember,
		Tier:        models.TierFree,
		PostingLimits: models.PostingLimits{
			VouchingActivity: models.VouchingActivity{
				PeriodMonth: int(now.Month()),
				PeriodYear:  now.Year(),
			},
		},
	}

	// The unique indexes on username/email catch the race the count above
	// cannot.
	if _, err := users.InsertOne(r.Context(), user); err != nil {
		writeInsertError(w, "signup insert", err, "ชื่อผู้ใช้หรืออีเมลนี้ถูกใช้แล้ว")
		return
	}

	token, err := services.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "signup session", err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Success: true, User: &user, Token: token})
}

// Signin authenticates by username and issues a session token.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := services.GetUserByUsername(r.Context(), req.Username)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusUnauthorized, "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง")
		return
	}
	if err != nil {
		writeServiceError(w, "signin lookup", err)
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		writeMessage(w, http.StatusUnauthorized, "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง")
		return
	}

	token, err := services.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "signin session", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, User: user, Token: token})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if err := services.InvalidateSession(r.Context(), token); err != nil {
		writeServiceError(w, "signout", err)
		return
	}
	writeMessage(w, http.StatusOK, "ออกจากระบบแล้ว")
}

// GetMe returns the authenticated user's own document.
func GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	writeData(w, http.StatusOK, user)
}
