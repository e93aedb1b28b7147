package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// ListingCooldown is the minimum gap between two listing posts of the same kind.
	ListingCooldown = 72 * time.Hour
	// BumpCooldown is the per-listing gap between bumps.
	BumpCooldown = 30 * 24 * time.Hour
	// ListingLifetime is how long a listing stays live before soft-expiring.
	ListingLifetime = 30 * 24 * time.Hour

	MaxActiveJobsFree     = 3
	MaxActiveJobsBadge    = 4
	MaxActiveHelpersFree  = 1
	MaxActiveHelpersBadge = 2
)

// PostingCheck is the advisory result surfaced to the client. Message is a
// user-facing Thai string, matching what the UI shows verbatim.
type PostingCheck struct {
	CanPost bool   `json:"can_post"`
	Message string `json:"message,omitempty"`
}

// activeQuota returns the non-expired listing quota for the user.
// Premium accounts are unquota'd; the activity badge raises the free quota.
func activeQuota(user *models.User, freeQuota, badgeQuota int) int {
	if user.Tier == models.TierPremium {
		return math.MaxInt
	}
	if user.HasActivityBadge {
		return badgeQuota
	}
	return freeQuota
}

// CheckListingLimits computes {canPost, message} from the user's last post
// date and the count of their currently non-expired listings. Pure; callers
// supply activeCount from the database.
func CheckListingLimits(user *models.User, lastPost *time.Time, activeCount int, freeQuota, badgeQuota int, now time.Time) PostingCheck {
	if lastPost != nil {
		elapsed := now.Sub(*lastPost)
		if elapsed < ListingCooldown {
			remaining := ListingCooldown - elapsed
			hours := int(remaining.Hours()) + 1
			return PostingCheck{
				CanPost: false,
				Message: fmt.Sprintf("คุณเพิ่งโพสต์ไปเมื่อเร็วๆ นี้ กรุณารออีกประมาณ %d ชั่วโมงก่อนโพสต์อีกครั้ง", hours),
			}
		}
	}

	if quota := activeQuota(user, freeQuota, badgeQuota); activeCount >= quota {
		return PostingCheck{
			CanPost: false,
			Message: fmt.Sprintf("คุณมีประกาศที่ยังไม่หมดอายุครบจำนวนสูงสุดแล้ว (%d รายการ) กรุณาลบหรือรอให้ประกาศเดิมหมดอายุ", quota),
		}
	}

	return PostingCheck{CanPost: true}
}

// CheckJobPostingLimits counts the user's non-expired jobs and applies the
// cooldown/quota rules.
func CheckJobPostingLimits(ctx context.Context, user *models.User) (PostingCheck, error) {
	count, err := database.DB.Collection(database.CollJobs).CountDocuments(ctx, bson.M{
		"userId":    user.ID,
		"isExpired": false,
	})
	if err != nil {
		return PostingCheck{}, err
	}
	return CheckListingLimits(user, user.PostingLimits.LastJobPostDate, int(count), MaxActiveJobsFree, MaxActiveJobsBadge, time.Now()), nil
}

// CheckHelperProfileLimits is the helper-profile counterpart of CheckJobPostingLimits.
func CheckHelperProfileLimits(ctx context.Context, user *models.User) (PostingCheck, error) {
	count, err := database.DB.Collection(database.CollHelperProfiles).CountDocuments(ctx, bson.M{
		"userId":    user.ID,
		"isExpired": false,
	})
	if err != nil {
		return PostingCheck{}, err
	}
	return CheckListingLimits(user, user.PostingLimits.LastHelperProfileDate, int(count), MaxActiveHelpersFree, MaxActiveHelpersBadge, time.Now()), nil
}

// CheckBumpCooldown decides whether the listing can be bumped now. The user's
// per-listing bump date wins; the listing's own lastBumpedAt is the fallback
// for records written before per-user bump tracking existed.
func CheckBumpCooldown(user *models.User, listingIDHex string, listingLastBumpedAt *time.Time, now time.Time) PostingCheck {
	lastBump := listingLastBumpedAt
	if user.PostingLimits.LastBumpDates != nil {
		if t, ok := user.PostingLimits.LastBumpDates[listingIDHex]; ok {
			lastBump = &t
		}
	}

	if lastBump == nil {
		return PostingCheck{CanPost: true}
	}

	if next := lastBump.Add(BumpCooldown); now.Before(next) {
		return PostingCheck{
			CanPost: false,
			Message: fmt.Sprintf("สามารถดันประกาศได้อีกครั้งในวันที่ %s", next.Format("02/01/2006")),
		}
	}
	return PostingCheck{CanPost: true}
}
