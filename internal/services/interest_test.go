package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNextInterestState(t *testing.T) {
	t.Run("no interest yet adds one", func(t *testing.T) {
		got := NextInterestState(false, 4)
		assert.True(t, got.Interested)
		assert.Equal(t, 5, got.InterestedCount)
	})

	t.Run("existing interest removes one", func(t *testing.T) {
		got := NextInterestState(true, 4)
		assert.False(t, got.Interested)
		assert.Equal(t, 3, got.InterestedCount)
	})

	t.Run("toggling twice restores the count", func(t *testing.T) {
		first := NextInterestState(false, 7)
		second := NextInterestState(first.Interested, first.InterestedCount)
		assert.Equal(t, 7, second.InterestedCount)
		assert.False(t, second.Interested)
	})

	t.Run("untoggle then retoggle restores the count", func(t *testing.T) {
		first := NextInterestState(true, 7)
		second := NextInterestState(first.Interested, first.InterestedCount)
		assert.Equal(t, 7, second.InterestedCount)
		assert.True(t, second.Interested)
	})
}

func TestLikeUpdate(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("user not in the array gets added", func(t *testing.T) {
		update, state := likeUpdate([]primitive.ObjectID{bob}, alice)
		assert.Equal(t, bson.M{"$addToSet": bson.M{"likes": alice}}, update)
		assert.True(t, state.Interested)
		assert.Equal(t, 2, state.InterestedCount)
	})

	t.Run("user in the array gets pulled", func(t *testing.T) {
		update, state := likeUpdate([]primitive.ObjectID{alice, bob}, alice)
		assert.Equal(t, bson.M{"$pull": bson.M{"likes": alice}}, update)
		assert.False(t, state.Interested)
		assert.Equal(t, 1, state.InterestedCount)
	})

	t.Run("empty array starts at one", func(t *testing.T) {
		_, state := likeUpdate(nil, alice)
		assert.True(t, state.Interested)
		assert.Equal(t, 1, state.InterestedCount)
	})
}
