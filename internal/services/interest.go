package services

import (
	"context"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// collectionForTarget maps an interest target type to its listing collection.
func collectionForTarget(t models.InterestTargetType) (string, error) {
	switch t {
	case models.TargetTypeJob:
		return database.CollJobs, nil
	case models.TargetTypeHelperProfile:
		return database.CollHelperProfiles, nil
	}
	return "", ErrNotFound
}

// ToggleResult reports the post-toggle state.
type ToggleResult struct {
	Interested      bool `json:"interested"`
	InterestedCount int  `json:"interested_count"`
}

// NextInterestState returns the post-toggle state given whether the user
// currently holds an interest join document and the target's current counter.
// Pure; the transaction applies the matching insert/delete and counter move,
// so toggling twice always restores the original count.
func NextInterestState(hasInterest bool, interestedCount int) ToggleResult {
	if hasInterest {
		return ToggleResult{Interested: false, InterestedCount: interestedCount - 1}
	}
	return ToggleResult{Interested: true, InterestedCount: interestedCount + 1}
}

// likeUpdate returns the array mutation and post-toggle state for a user id
// against the current likes array.
func likeUpdate(likes []primitive.ObjectID, userID primitive.ObjectID) (bson.M, ToggleResult) {
	for _, id := range likes {
		if id == userID {
			return bson.M{"$pull": bson.M{"likes": userID}},
				ToggleResult{Interested: false, InterestedCount: len(likes) - 1}
		}
	}
	return bson.M{"$addToSet": bson.M{"likes": userID}},
		ToggleResult{Interested: true, InterestedCount: len(likes) + 1}
}

// ToggleInterest flips the user's interest in a listing. The join document
// and the listing's denormalized interestedCount move together in one
// transaction, which keeps the invariant
// interestedCount == count(interest documents for the target).
func ToggleInterest(ctx context.Context, userID primitive.ObjectID, targetID primitive.ObjectID, targetType models.InterestTargetType) (*ToggleResult, error) {
	collName, err := collectionForTarget(targetType)
	if err != nil {
		return nil, err
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		targets := database.DB.Collection(collName)
		interests := database.DB.Collection(database.CollInterests)

		var target struct {
			UserID          primitive.ObjectID `bson:"userId"`
			InterestedCount int                `bson:"interestedCount"`
		}
		if err := targets.FindOne(sc, bson.M{"_id": targetID}).Decode(&target); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}

		filter := bson.M{"userId": userID, "targetId": targetID, "targetType": targetType}

		var existing models.Interest
		err := interests.FindOne(sc, filter).Decode(&existing)
		switch {
		case err == mongo.ErrNoDocuments:
			state := NextInterestState(false, target.InterestedCount)
			interest := models.Interest{
				ID:            primitive.NewObjectID(),
				CreatedAt:     time.Now(),
				UserID:        userID,
				TargetID:      targetID,
				TargetType:    targetType,
				TargetOwnerID: target.UserID,
			}
			if _, err := interests.InsertOne(sc, interest); err != nil {
				return nil, err
			}
			if _, err := targets.UpdateOne(sc, bson.M{"_id": targetID}, bson.M{"$inc": bson.M{"interestedCount": 1}}); err != nil {
				return nil, err
			}
			return &state, nil

		case err != nil:
			return nil, err

		default:
			state := NextInterestState(true, target.InterestedCount)
			if _, err := interests.DeleteOne(sc, bson.M{"_id": existing.ID}); err != nil {
				return nil, err
			}
			if _, err := targets.UpdateOne(sc, bson.M{"_id": targetID}, bson.M{"$inc": bson.M{"interestedCount": -1}}); err != nil {
				return nil, err
			}
			return &state, nil
		}
	})
	if err != nil {
		return nil, err
	}

	return result.(*ToggleResult), nil
}

// ListUserInterests returns the user's interest join documents, newest first.
func ListUserInterests(ctx context.Context, userID primitive.ObjectID) ([]models.Interest, error) {
	cursor, err := database.DB.Collection(database.CollInterests).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	interests := []models.Interest{}
	if err := cursor.All(ctx, &interests); err != nil {
		return nil, err
	}
	return interests, nil
}

// ToggleLike flips the user's id in the likes array of a webboard or blog
// post. Runs in a transaction that reads the current array to decide
// direction, mirroring the interest toggle.
func ToggleLike(ctx context.Context, collName string, postID, userID primitive.ObjectID) (liked bool, likeCount int, err error) {
	session, err := database.Client.StartSession()
	if err != nil {
		return false, 0, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		posts := database.DB.Collection(collName)

		var post struct {
			Likes []primitive.ObjectID `bson:"likes"`
		}
		if err := posts.FindOne(sc, bson.M{"_id": postID}).Decode(&post); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}

		update, state := likeUpdate(post.Likes, userID)
		if _, err := posts.UpdateOne(sc, bson.M{"_id": postID}, update); err != nil {
			return nil, err
		}
		return &state, nil
	})
	if err != nil {
		return false, 0, err
	}

	r := result.(*ToggleResult)
	return r.Interested, r.InterestedCount, nil
}
