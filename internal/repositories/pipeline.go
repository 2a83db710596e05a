package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownerLookup joins the public profile of the user referenced by localField into as
func ownerLookup(localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
		{Key: "pipeline", Value: mongo.Pipeline{
			{{Key: "$project", Value: bson.D{
				{Key: "username", Value: 1},
				{Key: "fullName", Value: 1},
				{Key: "avatar", Value: 1},
				{Key: "coverImage", Value: 1},
			}}},
		}},
	}}}
}

// unwind flattens a single element lookup result
func unwind(field string, keepEmpty bool) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: keepEmpty},
	}}}
}

// page returns the $skip and $limit stages of a 1-based page
func page(number, limit int) []bson.D {
	return []bson.D{
		{{Key: "$skip", Value: int64((number - 1) * limit)}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}
