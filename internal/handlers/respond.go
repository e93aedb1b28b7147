package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// validate checks request structs via their validator tags.
var validate = validator.New()

// Response is the shared JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: status < 400, Message: message})
}

// writeServiceError logs the error and maps sentinel domain errors to HTTP
// statuses. Everything else is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, context string, err error) {
	services.LogError(context, err)
	switch err {
	case services.ErrNotFound:
		writeMessage(w, http.StatusNotFound, "ไม่พบข้อมูลที่ต้องการ")
	case services.ErrPermission:
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ดำเนินการนี้")
	case services.ErrQuotaExceeded:
		writeMessage(w, http.StatusTooManyRequests, "คุณใช้สิทธิ์ครบตามโควต้าแล้ว")
	case services.ErrSelfVouch:
		writeMessage(w, http.StatusBadRequest, "ไม่สามารถรับรองตัวเองได้")
	case services.ErrVouchMissing:
		writeMessage(w, http.StatusConflict, "การรับรองนี้ถูกลบไปแล้ว")
	case services.ErrAlreadyDone:
		writeMessage(w, http.StatusConflict, "รายการนี้ถูกดำเนินการไปแล้ว")
	default:
		writeMessage(w, http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}
}

// writeInsertError maps a unique-index violation on an insert to 409 with the
// given message. Pre-insert existence checks still race with concurrent
// writers; the index is what actually holds the line.
func writeInsertError(w http.ResponseWriter, context string, err error, conflictMessage string) {
	if mongo.IsDuplicateKeyError(err) {
		writeMessage(w, http.StatusConflict, conflictMessage)
		return
	}
	writeServiceError(w, context, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dest); err != nil {
		writeMessage(w, http.StatusBadRequest, "กรุณากรอกข้อมูลให้ครบถ้วน: "+err.Error())
		return false
	}
	return true
}
