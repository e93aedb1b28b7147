package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WebboardPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	AuthorID          primitive.ObjectID `bson:"authorId" json:"author_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Title    string `bson:"title" json:"title"`
	Body     string `bson:"body" json:"body"`
	Category string `bson:"category" json:"category"`
	ImageURL string `bson:"imageURL,omitempty" json:"image_url,omitempty"`

	// User ids that liked the post; toggled with $addToSet/$pull inside a transaction.
	Likes []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`

	IsPinned bool `bson:"isPinned" json:"is_pinned"`
}

type WebboardComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	PostID            primitive.ObjectID `bson:"postId" json:"post_id"`
	AuthorID          primitive.ObjectID `bson:"authorId" json:"author_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Text string `bson:"text" json:"text"`
}
