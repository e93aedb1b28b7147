package services

import (
	"testing"
	"time"

	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCurrentVouchingActivity(t *testing.T) {
	june := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("same period keeps the count", func(t *testing.T) {
		va := models.VouchingActivity{Count: 3, PeriodMonth: 6, PeriodYear: 2024}
		got := CurrentVouchingActivity(va, june)
		assert.Equal(t, 3, got.Count)
	})

	t.Run("new month resets the count", func(t *testing.T) {
		va := models.VouchingActivity{Count: 5, PeriodMonth: 5, PeriodYear: 2024}
		got := CurrentVouchingActivity(va, june)
		assert.Equal(t, 0, got.Count)
		assert.Equal(t, 6, got.PeriodMonth)
		assert.Equal(t, 2024, got.PeriodYear)
	})

	t.Run("same month of a previous year resets", func(t *testing.T) {
		va := models.VouchingActivity{Count: 5, PeriodMonth: 6, PeriodYear: 2023}
		got := CurrentVouchingActivity(va, june)
		assert.Equal(t, 0, got.Count)
		assert.Equal(t, 2024, got.PeriodYear)
	})
}

func TestCanVouch(t *testing.T) {
	june := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("under quota", func(t *testing.T) {
		va := models.VouchingActivity{Count: MaxVouchesPerMonth - 1, PeriodMonth: 6, PeriodYear: 2024}
		assert.True(t, CanVouch(va, june))
	})

	t.Run("at quota", func(t *testing.T) {
		va := models.VouchingActivity{Count: MaxVouchesPerMonth, PeriodMonth: 6, PeriodYear: 2024}
		assert.False(t, CanVouch(va, june))
	})

	t.Run("quota frees up after the month turns", func(t *testing.T) {
		va := models.VouchingActivity{Count: MaxVouchesPerMonth, PeriodMonth: 5, PeriodYear: 2024}
		assert.True(t, CanVouch(va, june))
	})
}

func TestVouchCounters(t *testing.T) {
	types := []models.VouchType{
		models.VouchTypeWorkedTogether,
		models.VouchTypeColleague,
		models.VouchTypeCommunity,
		models.VouchTypePersonal,
	}

	for _, vt := range types {
		t.Run(string(vt), func(t *testing.T) {
			inc := vouchCounterInc(vt)
			dec := vouchCounterDec(vt)

			assert.Equal(t, 1, inc["vouchInfo.total"])
			assert.Equal(t, 1, inc["vouchInfo."+string(vt)])
			assert.Len(t, inc, 2)

			// dec must be the exact inverse of inc so a deleted vouch
			// restores the vouchee's stored counters
			assert.Len(t, dec, len(inc))
			for key, delta := range inc {
				assert.Equal(t, -delta.(int), dec[key])
			}
		})
	}
}
