package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin     UserRole = "Admin"
	RoleModerator UserRole = "Moderator"
	RoleMember    UserRole = "Member"
	RoleWriter    UserRole = "Writer"
)

type UserTier string

const (
	TierFree    UserTier = "free"
	TierPremium UserTier = "premium"
)

// VouchingActivity tracks the monthly vouch quota on the voucher.
// The counter is reset whenever the stored period differs from the
// current calendar month/year.
type VouchingActivity struct {
	Count       int `bson:"count" json:"count"`
	PeriodMonth int `bson:"periodMonth" json:"period_month"` // 1-12
	PeriodYear  int `bson:"periodYear" json:"period_year"`
}

// PostingLimits holds the per-user cooldown state for listing creation and bumps.
type PostingLimits struct {
	LastJobPostDate       *time.Time           `bson:"lastJobPostDate,omitempty" json:"last_job_post_date,omitempty"`
	LastHelperProfileDate *time.Time           `bson:"lastHelperProfileDate,omitempty" json:"last_helper_profile_date,omitempty"`
	LastBumpDates         map[string]time.Time `bson:"lastBumpDates,omitempty" json:"last_bump_dates,omitempty"` // listing id hex -> last bump
	VouchingActivity      VouchingActivity     `bson:"vouchingActivity" json:"vouching_activity"`
}

// VouchInfo holds denormalized endorsement counters on the vouchee.
// Field names match the VouchType strings so transactional $inc updates
// can address "vouchInfo.<type>" directly.
type VouchInfo struct {
	Total          int `bson:"total" json:"total"`
	WorkedTogether int `bson:"worked_together" json:"worked_together"`
	Colleague      int `bson:"colleague" json:"colleague"`
	Community      int `bson:"community" json:"community"`
	Personal       int `bson:"personal" json:"personal"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username    string `bson:"username" json:"username"`
	Email       string `bson:"email" json:"email"`
	Password    string `bson:"password" json:"-"` // Argon2id hash, never returned
	DisplayName string `bson:"displayName" json:"display_name"`

	Role             UserRole `bson:"role" json:"role"`
	Tier             UserTier `bson:"tier" json:"tier"`
	HasActivityBadge bool     `bson:"hasActivityBadge" json:"has_activity_badge"`

	PhotoURL string `bson:"photoURL,omitempty" json:"photo_url,omitempty"`
	Mobile   string `bson:"mobile,omitempty" json:"mobile,omitempty"`
	LineID   string `bson:"lineId,omitempty" json:"line_id,omitempty"`
	AboutMe  string `bson:"aboutMe,omitempty" json:"about_me,omitempty"`
	Province string `bson:"province,omitempty" json:"province,omitempty"`

	PostingLimits PostingLimits        `bson:"postingLimits" json:"posting_limits"`
	VouchInfo     VouchInfo            `bson:"vouchInfo" json:"vouch_info"`
	SavedPosts    []primitive.ObjectID `bson:"savedPosts,omitempty" json:"saved_posts,omitempty"`
}

// IsModeratorOrAbove reports whether the user can moderate webboard content.
func (u *User) IsModeratorOrAbove() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
