package services

import (
	"testing"
	"time"

	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCursorRoundTrip(t *testing.T) {
	original := PageCursor{
		Pinned:    true,
		UpdatedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		ID:        primitive.NewObjectID(),
	}

	decoded, err := DecodeCursor(EncodeCursor(original))
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, original.Pinned, decoded.Pinned)
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
	assert.Equal(t, original.ID, decoded.ID)
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty string means first page", func(t *testing.T) {
		c, err := DecodeCursor("")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := DecodeCursor("%%%not-base64%%%")
		assert.Error(t, err)
	})

	t.Run("valid base64 of non-json is rejected", func(t *testing.T) {
		_, err := DecodeCursor("bm90LWpzb24")
		assert.Error(t, err)
	})
}

func TestCursorFilter(t *testing.T) {
	t.Run("nil cursor adds no conditions", func(t *testing.T) {
		assert.Empty(t, CursorFilter(nil))
	})

	t.Run("cursor builds the three-branch strict-after condition", func(t *testing.T) {
		c := &PageCursor{
			Pinned:    true,
			UpdatedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			ID:        primitive.NewObjectID(),
		}
		filter := CursorFilter(c)

		branches, ok := filter["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, branches, 3)

		first := branches[0].(bson.M)
		assert.Equal(t, bson.M{"$lt": true}, first["isPinned"])

		last := branches[2].(bson.M)
		assert.Equal(t, true, last["isPinned"])
		assert.Equal(t, c.UpdatedAt, last["updatedAt"])
		assert.Equal(t, bson.M{"$lt": c.ID}, last["_id"])
	})
}

func TestNextCursorFromJob(t *testing.T) {
	makePage := func(n int) []models.Job {
		page := make([]models.Job, n)
		for i := range page {
			page[i] = models.Job{
				ID:        primitive.NewObjectID(),
				UpdatedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Minute),
			}
		}
		return page
	}

	t.Run("short page means no next cursor", func(t *testing.T) {
		assert.Empty(t, NextCursorFromJob(makePage(DefaultPageSize-1)))
		assert.Empty(t, NextCursorFromJob(nil))
	})

	t.Run("full page encodes the last element", func(t *testing.T) {
		page := makePage(DefaultPageSize)
		encoded := NextCursorFromJob(page)
		require.NotEmpty(t, encoded)

		decoded, err := DecodeCursor(encoded)
		require.NoError(t, err)
		last := page[len(page)-1]
		assert.Equal(t, last.ID, decoded.ID)
		assert.True(t, last.UpdatedAt.Equal(decoded.UpdatedAt))
	})
}
