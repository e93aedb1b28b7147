package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// CreateSession creates a new session for a user and stores it in Redis.
// Any existing session for the user is invalidated first so the 7-day
// timer always resets from the current login.
func CreateSession(ctx context.Context, userID primitive.ObjectID) (string, error) {
	InvalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.Hex()

	if err := database.RedisClient.Set(ctx, sessionKey, userID.Hex(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateSession checks if a session token is valid and returns the user ID.
func ValidateSession(ctx context.Context, sessionToken string) (primitive.ObjectID, bool, error) {
	if sessionToken == "" {
		return primitive.NilObjectID, false, nil
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userIDHex, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err != nil {
		return primitive.NilObjectID, false, nil
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return primitive.NilObjectID, false, err
	}

	return userID, true, nil
}

// InvalidateSession removes a session from Redis (sign-out).
func InvalidateSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDHex, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err == nil && userIDHex != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+userIDHex)
	}

	return database.RedisClient.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates the user's current session
// (re-login, password change, admin force-logout).
func InvalidateUserSessions(ctx context.Context, userID primitive.ObjectID) error {
	userSessionKey := UserSessionKeyPrefix + userID.Hex()

	sessionToken, err := database.RedisClient.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return database.RedisClient.Del(ctx, userSessionKey).Err()
}
