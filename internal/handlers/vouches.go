package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateVouchRequest struct {
	VoucheeID string `json:"vouchee_id" validate:"required,len=24,hexadecimal"`
	VouchType string `json:"vouch_type" validate:"required,oneof=worked_together colleague community personal"`
	Comment   string `json:"comment" validate:"omitempty,max=1000"`
}

// CreateVouch endorses another user, subject to the monthly quota.
func CreateVouch(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req CreateVouchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	voucheeID, err := primitive.ObjectIDFromHex(req.VoucheeID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if blocked, words := services.ContainsBlacklistedWord(req.Comment); blocked {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "ข้อความมีคำที่ไม่ได้รับอนุญาต",
			Data:    words,
		})
		return
	}

	vouch, err := services.CreateVouch(r.Context(), user, voucheeID, models.VouchType(req.VouchType), req.Comment)
	if err != nil {
		writeServiceError(w, "create vouch", err)
		return
	}

	writeData(w, http.StatusCreated, vouch)
}

// ListUserVouches returns the vouches a user has received.
func ListUserVouches(w http.ResponseWriter, r *http.Request) {
	voucheeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	vouches, err := services.ListVouchesForUser(r.Context(), voucheeID)
	if err != nil {
		writeServiceError(w, "list vouches", err)
		return
	}

	writeData(w, http.StatusOK, vouches)
}

// GetMyVouchQuota reports how many vouches the caller has left this month.
func GetMyVouchQuota(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	now := time.Now()
	activity := services.CurrentVouchingActivity(user.PostingLimits.VouchingActivity, now)
	remaining := services.MaxVouchesPerMonth - activity.Count
	if remaining < 0 {
		remaining = 0
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"used":      activity.Count,
		"remaining": remaining,
		"limit":     services.MaxVouchesPerMonth,
		"can_vouch": services.CanVouch(user.PostingLimits.VouchingActivity, now),
	})
}

type ReportVouchRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ReportVouch files a dispute against a vouch. The voucher may report their
// own vouch to request withdrawal.
func ReportVouch(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	vouchID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid vouch id")
		return
	}

	var req ReportVouchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := services.CreateVouchReport(r.Context(), vouchID, user.ID, req.Reason)
	if err != nil {
		writeServiceError(w, "report vouch", err)
		return
	}

	writeData(w, http.StatusCreated, report)
}
