package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteConfig is a single well-known document edited by admins and cached in Redis.
type SiteConfig struct {
	ID               string    `bson:"_id" json:"id"` // always "main"
	AnnouncementText string    `bson:"announcementText,omitempty" json:"announcement_text,omitempty"`
	MaintenanceMode  bool      `bson:"maintenanceMode" json:"maintenance_mode"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updated_at"`

	UpdatedBy primitive.ObjectID `bson:"updatedBy,omitempty" json:"updated_by,omitempty"`
}

// Interaction is one row of the append-only employer→helper contact log
// kept in PostgreSQL. There is no mutation or deletion path.
type Interaction struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	HelperProfileID string    `json:"helper_profile_id"`
	EmployerUserID  string    `json:"employer_user_id"`
	HelperUserID    string    `json:"helper_user_id"`
	Type            string    `json:"type"` // e.g. "contact_helper"
}
