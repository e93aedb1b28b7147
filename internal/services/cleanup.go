package services

import (
	"context"
	"log"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PurgeGracePeriod is how long an expired listing is kept before the hard
// delete becomes eligible.
const PurgeGracePeriod = 30 * 24 * time.Hour

// EligibleForDeletion decides whether an expired listing can be hard-deleted:
// it must be flagged expired, the expiry must be more than 30 days in the
// past, and the owner must not have touched it since expiry
// (updatedAt <= expiresAt). Pure.
func EligibleForDeletion(isExpired bool, expiresAt, updatedAt, now time.Time) bool {
	if !isExpired {
		return false
	}
	if now.Sub(expiresAt) <= PurgeGracePeriod {
		return false
	}
	return !updatedAt.After(expiresAt)
}

var listingCollections = []string{database.CollJobs, database.CollHelperProfiles}

// MarkExpiredPosts sets isExpired on every listing whose expiresAt is
// strictly before now. Phase one of the cleanup sweep.
func MarkExpiredPosts(ctx context.Context) (int64, error) {
	now := time.Now()
	var marked int64

	for _, coll := range listingCollections {
		result, err := database.DB.Collection(coll).UpdateMany(ctx, bson.M{
			"isExpired": false,
			"expiresAt": bson.M{"$lt": now},
		}, bson.M{
			"$set": bson.M{"isExpired": true},
		})
		if err != nil {
			return marked, err
		}
		marked += result.ModifiedCount
	}

	return marked, nil
}

// CleanupExpiredPosts hard-deletes listings expired for more than 30 days and
// untouched since expiry. Deletes run per document with error isolation: one
// failing delete does not abort the sweep.
func CleanupExpiredPosts(ctx context.Context) (deleted int, failed int, err error) {
	now := time.Now()
	cutoff := now.Add(-PurgeGracePeriod)

	for _, coll := range listingCollections {
		cursor, err := database.DB.Collection(coll).Find(ctx, bson.M{
			"isExpired": true,
			"expiresAt": bson.M{"$lt": cutoff},
		})
		if err != nil {
			return deleted, failed, err
		}

		var candidates []struct {
			ID        primitive.ObjectID `bson:"_id"`
			ExpiresAt time.Time          `bson:"expiresAt"`
			UpdatedAt time.Time          `bson:"updatedAt"`
		}
		if err := cursor.All(ctx, &candidates); err != nil {
			cursor.Close(ctx)
			return deleted, failed, err
		}

		for _, c := range candidates {
			if !EligibleForDeletion(true, c.ExpiresAt, c.UpdatedAt, now) {
				continue
			}
			if _, err := database.DB.Collection(coll).DeleteOne(ctx, bson.M{"_id": c.ID}); err != nil {
				LogError("cleanup delete "+coll, err)
				failed++
				continue
			}
			// Interests pointing at a deleted listing go with it
			if _, err := database.DB.Collection(database.CollInterests).DeleteMany(ctx, bson.M{"targetId": c.ID}); err != nil {
				LogError("cleanup interests "+coll, err)
			}
			deleted++
		}
	}

	return deleted, failed, nil
}

// StartExpirySweep runs the two-phase sweep on a background ticker.
// Also runs once at startup.
func StartExpirySweep(intervalHours int) {
	if intervalHours <= 0 {
		intervalHours = 6
	}

	go func() {
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		runSweep()
		for range ticker.C {
			runSweep()
		}
	}()
}

func runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	marked, err := MarkExpiredPosts(ctx)
	if err != nil {
		LogError("expiry sweep mark", err)
	}
	deleted, failed, err := CleanupExpiredPosts(ctx)
	if err != nil {
		LogError("expiry sweep cleanup", err)
	}
	if marked > 0 || deleted > 0 || failed > 0 {
		log.Printf("🧹 expiry sweep: %d marked, %d deleted, %d failed", marked, deleted, failed)
	}
}
