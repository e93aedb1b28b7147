package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Job struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	UserID            primitive.ObjectID `bson:"userId" json:"user_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Category    string `bson:"category" json:"category"`
	SubCategory string `bson:"subCategory,omitempty" json:"sub_category,omitempty"`
	Province    string `bson:"province" json:"province"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	Wage        string `bson:"wage,omitempty" json:"wage,omitempty"`
	DateNeeded  string `bson:"dateNeeded,omitempty" json:"date_needed,omitempty"`

	IsPinned     bool `bson:"isPinned" json:"is_pinned"`
	IsSuspicious bool `bson:"isSuspicious" json:"is_suspicious"`
	IsHired      bool `bson:"isHired" json:"is_hired"`

	IsExpired    bool       `bson:"isExpired" json:"is_expired"`
	ExpiresAt    time.Time  `bson:"expiresAt" json:"expires_at"`
	LastBumpedAt *time.Time `bson:"lastBumpedAt,omitempty" json:"last_bumped_at,omitempty"`

	// Kept equal to the number of interest documents for this job;
	// only mutated inside the interest-toggle transaction.
	InterestedCount int `bson:"interestedCount" json:"interested_count"`
}

type JobApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID       primitive.ObjectID `bson:"jobId" json:"job_id"`
	ApplicantID primitive.ObjectID `bson:"applicantId" json:"applicant_id"`
	Pitch       string             `bson:"pitch,omitempty" json:"pitch,omitempty"`
	AudioURL    string             `bson:"audioURL,omitempty" json:"audio_url,omitempty"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submitted_at"`
}
