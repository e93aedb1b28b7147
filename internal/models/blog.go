package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

type BlogPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	Slug string `bson:"slug" json:"slug"`

	AuthorID          primitive.ObjectID `bson:"authorId" json:"author_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Title         string   `bson:"title" json:"title"`
	Excerpt       string   `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content       string   `bson:"content" json:"content"`
	CoverImageURL string   `bson:"coverImageURL,omitempty" json:"cover_image_url,omitempty"`
	Tags          []string `bson:"tags,omitempty" json:"tags,omitempty"`

	Status      BlogStatus `bson:"status" json:"status"`
	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"published_at,omitempty"` // set on first transition to published

	Likes []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
}

type BlogComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`

	PostID            primitive.ObjectID `bson:"postId" json:"post_id"`
	AuthorID          primitive.ObjectID `bson:"authorId" json:"author_id"`
	AuthorDisplayName string             `bson:"authorDisplayName" json:"author_display_name"`

	Text string `bson:"text" json:"text"`
}
