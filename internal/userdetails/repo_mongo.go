package userdetails

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resume-builder-backend/internal/shared/storage/docstore"
)

// CollectionName is the MongoDB collection holding resume documents.
const CollectionName = "userdetails"

type MongoRepo struct {
	Coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection(CollectionName)}
}

// document is the stored shape. resumeData stays raw BSON so whatever the
// client sent, numbers and unknown fields included, reads back unchanged.
type document struct {
	UserID     string        `bson:"userId"`
	ResumeData bson.RawValue `bson:"resumeData"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

func (r *MongoRepo) EnsureIndexes(ctx context.Context) (string, error) {
	return docstore.EnsureUniqueIndex(ctx, r.Coll, "userId")
}

func (r *MongoRepo) Upsert(ctx context.Context, userID string, data json.RawMessage) (UserDetails, bool, error) {
	value, err := docstore.FromJSON(data)
	if err != nil {
		return UserDetails{}, false, err
	}
	created, err := r.upsertOnce(ctx, userID, value)
	if docstore.IsDuplicateKey(err) {
		created, err = r.upsertOnce(ctx, userID, value)
	}
	if err != nil {
		return UserDetails{}, false, err
	}
	rec, err := r.GetByID(ctx, userID)
	if err != nil {
		return UserDetails{}, false, err
	}
	return rec, created, nil
}

func (r *MongoRepo) upsertOnce(ctx context.Context, userID string, value bson.RawValue) (bool, error) {
	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "resumeData", Value: value},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	res, err := r.Coll.UpdateOne(ctx, bson.D{{Key: "userId", Value: userID}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, errors.Wrap(err, "update user details")
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, userID string) (UserDetails, error) {
	var doc document
	err := r.Coll.FindOne(ctx, bson.D{{Key: "userId", Value: userID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserDetails{}, ErrNotFound
		}
		return UserDetails{}, errors.Wrap(err, "find user details")
	}
	data, err := docstore.ToJSON(doc.ResumeData)
	if err != nil {
		return UserDetails{}, err
	}
	return UserDetails{
		UserID:     doc.UserID,
		ResumeData: data,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}
