package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

// Collection names. Counter fields denormalized onto jobs/helper profiles and users
// are only ever mutated together with their join documents inside a transaction,
// so transactions require a replica-set (or Atlas) deployment.
const (
	CollUsers            = "users"
	CollJobs             = "jobs"
	CollHelperProfiles   = "helperProfiles"
	CollWebboardPosts    = "webboardPosts"
	CollWebboardComments = "webboardComments"
	CollBlogPosts        = "blogPosts"
	CollBlogComments     = "blogComments"
	CollInterests        = "interests"
	CollVouches          = "vouches"
	CollVouchReports     = "vouchReports"
	CollJobApplications  = "jobApplications"
	CollSiteConfig       = "siteConfig"
)

func Connect(mongoURI string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	Client = client

	// Extract database name from the URI, fall back to "hajobja"
	dbName := "hajobja"
	if mongoURI != "" {
		parts := strings.Split(mongoURI, "/")
		if len(parts) > 3 {
			dbPart := strings.Split(parts[len(parts)-1], "?")[0]
			if dbPart != "" {
				dbName = dbPart
			}
		}
	}

	DB = client.Database(dbName)

	log.Println("✅ Connected to MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the listing queries and counter
// transactions rely on. Safe to call on every startup.
func EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollJobs: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isExpired", Value: 1}}},
			{Keys: bson.D{{Key: "isPinned", Value: -1}, {Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
		CollHelperProfiles: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isExpired", Value: 1}}},
			{Keys: bson.D{{Key: "isPinned", Value: -1}, {Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
		CollWebboardPosts: {
			{Keys: bson.D{{Key: "isPinned", Value: -1}, {Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		CollWebboardComments: {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		CollBlogPosts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}}},
		},
		CollInterests: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "targetId", Value: 1}, {Key: "targetType", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollVouches: {
			{Keys: bson.D{{Key: "voucheeId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollVouchReports: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollJobApplications: {
			{Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "applicantId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, models := range indexes {
		if _, err := DB.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}
