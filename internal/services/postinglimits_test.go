package services

import (
	"testing"
	"time"

	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCheckListingLimits(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	freeUser := &models.User{Tier: models.TierFree}
	badgeUser := &models.User{Tier: models.TierFree, HasActivityBadge: true}
	premiumUser := &models.User{Tier: models.TierPremium}

	t.Run("first post is allowed", func(t *testing.T) {
		check := CheckListingLimits(freeUser, nil, 0, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.True(t, check.CanPost)
		assert.Empty(t, check.Message)
	})

	t.Run("post inside the 72h cooldown is rejected", func(t *testing.T) {
		lastPost := now.Add(-24 * time.Hour)
		check := CheckListingLimits(freeUser, &lastPost, 0, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.False(t, check.CanPost)
		assert.NotEmpty(t, check.Message)
	})

	t.Run("post just past the cooldown is allowed", func(t *testing.T) {
		lastPost := now.Add(-ListingCooldown - time.Minute)
		check := CheckListingLimits(freeUser, &lastPost, 0, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.True(t, check.CanPost)
	})

	t.Run("free quota caps active listings", func(t *testing.T) {
		check := CheckListingLimits(freeUser, nil, MaxActiveJobsFree, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.False(t, check.CanPost)
	})

	t.Run("activity badge raises the quota by one", func(t *testing.T) {
		check := CheckListingLimits(badgeUser, nil, MaxActiveJobsFree, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.True(t, check.CanPost)

		check = CheckListingLimits(badgeUser, nil, MaxActiveJobsBadge, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.False(t, check.CanPost)
	})

	t.Run("premium users have no quota", func(t *testing.T) {
		check := CheckListingLimits(premiumUser, nil, 1000, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.True(t, check.CanPost)
	})

	t.Run("cooldown applies before quota", func(t *testing.T) {
		lastPost := now.Add(-time.Hour)
		check := CheckListingLimits(premiumUser, &lastPost, 0, MaxActiveJobsFree, MaxActiveJobsBadge, now)
		assert.False(t, check.CanPost)
	})
}

func TestCheckBumpCooldown(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	listingID := "6650f0000000000000000001"

	t.Run("never bumped listing can be bumped", func(t *testing.T) {
		user := &models.User{}
		check := CheckBumpCooldown(user, listingID, nil, now)
		assert.True(t, check.CanPost)
	})

	t.Run("recent bump in user map blocks", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			LastBumpDates: map[string]time.Time{listingID: now.Add(-24 * time.Hour)},
		}}
		check := CheckBumpCooldown(user, listingID, nil, now)
		assert.False(t, check.CanPost)
		assert.NotEmpty(t, check.Message)
	})

	t.Run("bump older than 30 days is allowed", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			LastBumpDates: map[string]time.Time{listingID: now.Add(-BumpCooldown - time.Hour)},
		}}
		check := CheckBumpCooldown(user, listingID, nil, now)
		assert.True(t, check.CanPost)
	})

	t.Run("listing lastBumpedAt is the fallback", func(t *testing.T) {
		user := &models.User{}
		recent := now.Add(-time.Hour)
		check := CheckBumpCooldown(user, listingID, &recent, now)
		assert.False(t, check.CanPost)
	})

	t.Run("user map wins over listing fallback", func(t *testing.T) {
		old := now.Add(-BumpCooldown - time.Hour)
		user := &models.User{PostingLimits: models.PostingLimits{
			LastBumpDates: map[string]time.Time{listingID: old},
		}}
		recent := now.Add(-time.Hour)
		// The per-user record says the cooldown has passed even though the
		// listing's own timestamp is recent.
		check := CheckBumpCooldown(user, listingID, &recent, now)
		assert.True(t, check.CanPost)
	})

	t.Run("cooldowns are tracked per listing", func(t *testing.T) {
		user := &models.User{PostingLimits: models.PostingLimits{
			LastBumpDates: map[string]time.Time{"6650f0000000000000000002": now.Add(-time.Hour)},
		}}
		check := CheckBumpCooldown(user, listingID, nil, now)
		assert.True(t, check.CanPost)
	})
}
