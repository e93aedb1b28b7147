package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotaRequest(user *models.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/vouches/quota", nil)
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

func TestGetMyVouchQuota(t *testing.T) {
	now := time.Now()

	t.Run("fresh user has the full quota", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			VouchingActivity: models.VouchingActivity{PeriodMonth: int(now.Month()), PeriodYear: now.Year()},
		}}

		rec := httptest.NewRecorder()
		GetMyVouchQuota(rec, quotaRequest(user))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Used      int  `json:"used"`
				Remaining int  `json:"remaining"`
				Limit     int  `json:"limit"`
				CanVouch  bool `json:"can_vouch"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Data.Used)
		assert.Equal(t, services.MaxVouchesPerMonth, resp.Data.Remaining)
		assert.True(t, resp.Data.CanVouch)
	})

	t.Run("exhausted quota reports can_vouch false", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			VouchingActivity: models.VouchingActivity{
				Count:       services.MaxVouchesPerMonth,
				PeriodMonth: int(now.Month()),
				PeriodYear:  now.Year(),
			},
		}}

		rec := httptest.NewRecorder()
		GetMyVouchQuota(rec, quotaRequest(user))

		var resp struct {
			Data struct {
				Remaining int  `json:"remaining"`
				CanVouch  bool `json:"can_vouch"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Data.Remaining)
		assert.False(t, resp.Data.CanVouch)
	})

	t.Run("stale period counts as a fresh month", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			VouchingActivity: models.VouchingActivity{Count: services.MaxVouchesPerMonth, PeriodMonth: 1, PeriodYear: 2020},
		}}

		rec := httptest.NewRecorder()
		GetMyVouchQuota(rec, quotaRequest(user))

		var resp struct {
			Data struct {
				Used     int  `json:"used"`
				CanVouch bool `json:"can_vouch"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Data.Used)
		assert.True(t, resp.Data.CanVouch)
	})
}
