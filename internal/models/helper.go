package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HelperProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	UserID            primitive.ObjectID `bson:"userId" json:"user_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Title       string `bson:"title" json:"title"`
	Details     string `bson:"details" json:"details"`
	Category    string `bson:"category" json:"category"`
	SubCategory string `bson:"subCategory,omitempty" json:"sub_category,omitempty"`
	Province    string `bson:"province" json:"province"`
	Area        string `bson:"area,omitempty" json:"area,omitempty"`

	AvailabilityFrom string `bson:"availabilityFrom,omitempty" json:"availability_from,omitempty"`
	AvailabilityTo   string `bson:"availabilityTo,omitempty" json:"availability_to,omitempty"`
	VoiceIntroURL    string `bson:"voiceIntroURL,omitempty" json:"voice_intro_url,omitempty"`

	IsPinned                bool `bson:"isPinned" json:"is_pinned"`
	IsSuspicious            bool `bson:"isSuspicious" json:"is_suspicious"`
	IsUnavailable           bool `bson:"isUnavailable" json:"is_unavailable"`
	AdminVerifiedExperience bool `bson:"adminVerifiedExperience" json:"admin_verified_experience"`

	IsExpired    bool       `bson:"isExpired" json:"is_expired"`
	ExpiresAt    time.Time  `bson:"expiresAt" json:"expires_at"`
	LastBumpedAt *time.Time `bson:"lastBumpedAt,omitempty" json:"last_bumped_at,omitempty"`

	InterestedCount int `bson:"interestedCount" json:"interested_count"`
}
