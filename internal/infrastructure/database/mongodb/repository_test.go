package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConsumeResetToken_Shape(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	filter, update := consumeResetToken("hashed-token", "bcrypt-hash", now)

	assert.Equal(t, bson.D{
		{Key: "resetPasswordToken", Value: "hashed-token"},
		{Key: "resetPasswordExpire", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	}, filter)

	assert.Equal(t, bson.D{
		{Key: "$unset", Value: bson.D{
			{Key: "resetPasswordToken", Value: ""},
			{Key: "resetPasswordExpire", Value: ""},
		}},
		{Key: "$set", Value: bson.D{{Key: "password", Value: "bcrypt-hash"}}},
	}, update)
}

func TestConsumeResetToken_DoesNotAliasUnset(t *testing.T) {
	_, first := consumeResetToken("a", "one", time.Now())
	_, second := consumeResetToken("b", "two", time.Now())

	require.Len(t, first, 2)
	assert.Equal(t, bson.D{{Key: "password", Value: "one"}}, first[1].Value)
	assert.Equal(t, bson.D{{Key: "password", Value: "two"}}, second[1].Value)
	assert.Len(t, unsetResetToken(), 1)
}

func TestWithinRadius_Shape(t *testing.T) {
	filter := withinRadius(-71.1, 42.35, 10.0/3963)

	assert.Equal(t, bson.D{{Key: "location", Value: bson.D{{Key: "$geoWithin", Value: bson.D{
		{Key: "$centerSphere", Value: bson.A{bson.A{-71.1, 42.35}, 10.0 / 3963}},
	}}}}}, filter)
}

func TestAveragePipeline_Shape(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "bootcamp", Value: id}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bootcamp"},
			{Key: "value", Value: bson.D{{Key: "$avg", Value: "$tuition"}}},
		}}},
	}, averagePipeline(id, "$tuition"))

	rating := averagePipeline(id, "$rating")
	group := rating[1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "$avg", Value: "$rating"}}, group[1].Value)
}
