package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is the fixed page size for listing queries.
const DefaultPageSize = 12

// PageCursor carries the last-seen sort keys of a page. It travels to the
// client as opaque base64 JSON.
type PageCursor struct {
	Pinned    bool               `json:"p"`
	UpdatedAt time.Time          `json:"u"`
	ID        primitive.ObjectID `json:"i"`
}

// EncodeCursor serializes a cursor for the client.
func EncodeCursor(c PageCursor) string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses a client-supplied cursor. An empty string means the
// first page.
func DecodeCursor(s string) (*PageCursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var c PageCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// listingSort orders pinned items first, then by recency. Bumping a listing
// refreshes updatedAt, which is what moves it back to the top.
var listingSort = bson.D{
	{Key: "isPinned", Value: -1},
	{Key: "updatedAt", Value: -1},
	{Key: "_id", Value: -1},
}

// CursorFilter translates a cursor into the strict "after this sort key"
// condition matching listingSort.
func CursorFilter(c *PageCursor) bson.M {
	if c == nil {
		return bson.M{}
	}
	// isPinned is a bool; BSON comparison orders false < true
	return bson.M{"$or": bson.A{
		bson.M{"isPinned": bson.M{"$lt": c.Pinned}},
		bson.M{"isPinned": c.Pinned, "updatedAt": bson.M{"$lt": c.UpdatedAt}},
		bson.M{"isPinned": c.Pinned, "updatedAt": c.UpdatedAt, "_id": bson.M{"$lt": c.ID}},
	}}
}

// FindListingPage runs a paginated query against a listing collection and
// decodes one page into out (a pointer to a slice). Callers derive the
// next-page cursor from the last element via the NextCursorFrom* helpers.
func FindListingPage(ctx context.Context, collName string, filter bson.M, cursor *PageCursor, out interface{}) error {
	if cf := CursorFilter(cursor); len(cf) > 0 {
		filter = bson.M{"$and": bson.A{filter, cf}}
	}

	opts := options.Find().SetSort(listingSort).SetLimit(DefaultPageSize)
	cur, err := database.DB.Collection(collName).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	return cur.All(ctx, out)
}

// NextCursorFromJob builds the next-page cursor from the last job of a full page.
func NextCursorFromJob(page []models.Job) string {
	if len(page) < DefaultPageSize {
		return ""
	}
	last := page[len(page)-1]
	return EncodeCursor(PageCursor{Pinned: last.IsPinned, UpdatedAt: last.UpdatedAt, ID: last.ID})
}

// NextCursorFromHelper builds the next-page cursor from a full helper-profile page.
func NextCursorFromHelper(page []models.HelperProfile) string {
	if len(page) < DefaultPageSize {
		return ""
	}
	last := page[len(page)-1]
	return EncodeCursor(PageCursor{Pinned: last.IsPinned, UpdatedAt: last.UpdatedAt, ID: last.ID})
}

// NextCursorFromWebboard builds the next-page cursor from a full webboard page.
func NextCursorFromWebboard(page []models.WebboardPost) string {
	if len(page) < DefaultPageSize {
		return ""
	}
	last := page[len(page)-1]
	return EncodeCursor(PageCursor{Pinned: last.IsPinned, UpdatedAt: last.UpdatedAt, ID: last.ID})
}

// BumpListing refreshes a listing's recency ordering. Both writes - the
// listing's lastBumpedAt/updatedAt and the owner's per-listing bump date -
// run in one transaction so a crash can't leave the cooldown unset while the
// listing already moved up.
func BumpListing(ctx context.Context, user *models.User, collName string, listingID primitive.ObjectID) (PostingCheck, error) {
	session, err := database.Client.StartSession()
	if err != nil {
		return PostingCheck{}, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		listings := database.DB.Collection(collName)

		var listing struct {
			UserID       primitive.ObjectID `bson:"userId"`
			LastBumpedAt *time.Time         `bson:"lastBumpedAt"`
		}
		if err := listings.FindOne(sc, bson.M{"_id": listingID}).Decode(&listing); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if listing.UserID != user.ID {
			return nil, ErrPermission
		}

		// Cooldown is checked against the stored user, not the request
		// snapshot, so concurrent bumps serialize on the transaction.
		var storedUser models.User
		if err := database.DB.Collection(database.CollUsers).FindOne(sc, bson.M{"_id": user.ID}).Decode(&storedUser); err != nil {
			return nil, err
		}

		now := time.Now()
		check := CheckBumpCooldown(&storedUser, listingID.Hex(), listing.LastBumpedAt, now)
		if !check.CanPost {
			return check, nil
		}

		if _, err := listings.UpdateOne(sc, bson.M{"_id": listingID}, bson.M{
			"$set": bson.M{"lastBumpedAt": now, "updatedAt": now},
		}); err != nil {
			return nil, err
		}

		if _, err := database.DB.Collection(database.CollUsers).UpdateOne(sc, bson.M{"_id": user.ID}, bson.M{
			"$set": bson.M{"postingLimits.lastBumpDates." + listingID.Hex(): now},
		}); err != nil {
			return nil, err
		}

		return PostingCheck{CanPost: true}, nil
	})
	if err != nil {
		return PostingCheck{}, err
	}

	return result.(PostingCheck), nil
}

// moderationFlags are the boolean flags admins (and for some, owners) may toggle.
var moderationFlags = map[string]bool{
	"isSuspicious":            true,
	"isPinned":                true,
	"isHired":                 true,
	"isUnavailable":           true,
	"adminVerifiedExperience": true,
}

// ToggleListingFlag atomically negates a boolean flag on a document using an
// update pipeline, so two concurrent toggles serialize instead of losing one.
// updatedAt is left alone: flag changes are not owner activity and must not
// affect recency ordering or cleanup eligibility.
func ToggleListingFlag(ctx context.Context, collName string, id primitive.ObjectID, flag string) (bool, error) {
	if !moderationFlags[flag] {
		return false, ErrNotFound
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{flag: bson.M{"$not": "$" + flag}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{flag: 1})
	var updated bson.M
	err := database.DB.Collection(collName).FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	newValue, _ := updated[flag].(bool)
	return newValue, nil
}
