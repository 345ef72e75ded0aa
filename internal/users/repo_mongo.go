package users

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resume-builder-backend/internal/shared/storage/docstore"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

type MongoRepo struct {
	Coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique userId index the upsert relies on.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) (string, error) {
	return docstore.EnsureUniqueIndex(ctx, r.Coll, "userId")
}

func (r *MongoRepo) Upsert(ctx context.Context, in UpsertInput) (User, bool, error) {
	created, err := r.upsertOnce(ctx, in)
	if docstore.IsDuplicateKey(err) {
		// A concurrent insert of the same id won; the document now exists.
		created, err = r.upsertOnce(ctx, in)
	}
	if err != nil {
		return User{}, false, err
	}
	user, err := r.GetByID(ctx, in.UserID)
	if err != nil {
		return User{}, false, err
	}
	return user, created, nil
}

func (r *MongoRepo) upsertOnce(ctx context.Context, in UpsertInput) (bool, error) {
	now := time.Now().UTC()
	set := bson.D{
		{Key: "filledForm", Value: in.FilledForm},
		{Key: "updatedAt", Value: now},
	}
	if in.ProfileImage != "" {
		set = append(set, bson.E{Key: "profileImage", Value: in.ProfileImage})
	}
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	res, err := r.Coll.UpdateOne(ctx, bson.D{{Key: "userId", Value: in.UserID}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, errors.Wrap(err, "update user")
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := r.Coll.FindOne(ctx, bson.D{{Key: "userId", Value: userID}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, errors.Wrap(err, "find user")
	}
	return user, nil
}

func (r *MongoRepo) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.Coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	out := []User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return out, nil
}
