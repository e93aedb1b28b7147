package services

import (
	"context"
	"log"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUserByID loads a user document by id.
func GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := database.DB.Collection(database.CollUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername loads a user document by username.
func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := database.DB.Collection(database.CollUsers).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleSavedPost flips membership of a webboard post id in the user's
// savedPosts array. Plain $addToSet/$pull, no transaction: the array is the
// only state touched.
func ToggleSavedPost(ctx context.Context, userID, postID primitive.ObjectID) (saved bool, err error) {
	users := database.DB.Collection(database.CollUsers)

	count, err := users.CountDocuments(ctx, bson.M{"_id": userID, "savedPosts": postID})
	if err != nil {
		return false, err
	}

	var update bson.M
	if count > 0 {
		update = bson.M{"$pull": bson.M{"savedPosts": postID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"savedPosts": postID}}
	}
	update["$set"] = bson.M{"updated_at": time.Now()}

	if _, err := users.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return false, err
	}
	return count == 0, nil
}

// LogError is the single funnel for remote-call failures; handlers log
// through it before mapping the error to a response.
func LogError(context string, err error) {
	log.Printf("⚠️  %s: %v", context, err)
}
