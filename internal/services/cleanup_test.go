package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEligibleForDeletion(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("non-expired listing is never deleted", func(t *testing.T) {
		expiresAt := now.Add(-60 * 24 * time.Hour)
		assert.False(t, EligibleForDeletion(false, expiresAt, expiresAt, now))
	})

	t.Run("expired but inside the grace period", func(t *testing.T) {
		expiresAt := now.Add(-10 * 24 * time.Hour)
		assert.False(t, EligibleForDeletion(true, expiresAt, expiresAt.Add(-time.Hour), now))
	})

	t.Run("expired past the grace period and untouched", func(t *testing.T) {
		expiresAt := now.Add(-40 * 24 * time.Hour)
		updatedAt := expiresAt.Add(-5 * 24 * time.Hour)
		assert.True(t, EligibleForDeletion(true, expiresAt, updatedAt, now))
	})

	t.Run("owner activity after expiry blocks deletion", func(t *testing.T) {
		expiresAt := now.Add(-40 * 24 * time.Hour)
		updatedAt := expiresAt.Add(24 * time.Hour)
		assert.False(t, EligibleForDeletion(true, expiresAt, updatedAt, now))
	})

	t.Run("updatedAt equal to expiresAt still deletes", func(t *testing.T) {
		expiresAt := now.Add(-40 * 24 * time.Hour)
		assert.True(t, EligibleForDeletion(true, expiresAt, expiresAt, now))
	})

	t.Run("exactly at the grace boundary is kept", func(t *testing.T) {
		expiresAt := now.Add(-PurgeGracePeriod)
		assert.False(t, EligibleForDeletion(true, expiresAt, expiresAt, now))
	})
}
