package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InterestTargetType string

const (
	TargetTypeJob           InterestTargetType = "job"
	TargetTypeHelperProfile InterestTargetType = "helperProfile"
)

// Interest is the join document behind "I'm interested in this listing".
// Its existence is toggled; the target's interestedCount moves by ±1 in
// the same transaction.
type Interest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`

	UserID        primitive.ObjectID `bson:"userId" json:"user_id"`
	TargetID      primitive.ObjectID `bson:"targetId" json:"target_id"`
	TargetType    InterestTargetType `bson:"targetType" json:"target_type"`
	TargetOwnerID primitive.ObjectID `bson:"targetOwnerId" json:"target_owner_id"`
}
