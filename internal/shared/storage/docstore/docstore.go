// Package docstore owns the MongoDB client used by the document-store repositories.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"resume-builder-backend/internal/shared/telemetry"
)

// Options controls how the MongoDB client is created.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// Store bundles a connected client with the database the repositories use.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.URI) == "" {
		return nil, errors.New("MONGODB_URI is empty")
	}
	if strings.TrimSpace(opts.Database) == "" {
		return nil, errors.New("mongo database name is empty")
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	telemetry.Info("mongo.init", map[string]any{"database": opts.Database})
	return &Store{Client: client, DB: client.Database(opts.Database)}, nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return errors.New("mongo store not configured")
	}
	return s.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}

// EnsureUniqueIndex creates an ascending unique index on field if it does not
// exist yet and returns its name. The name is left to the driver (field_1) so
// an index created earlier by another client on the same key is reused.
func EnsureUniqueIndex(ctx context.Context, coll *mongo.Collection, field string) (string, error) {
	name, err := coll.Indexes().CreateOne(ctx, uniqueIndex(field))
	if err != nil {
		return "", errors.Wrapf(err, "create unique index %s.%s", coll.Name(), field)
	}
	return name, nil
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// FromJSON converts any JSON value into a BSON value for storage. Integers
// become int32 or int64, other numbers doubles; empty input is null.
func FromJSON(raw []byte) (bson.RawValue, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	doc := make([]byte, 0, len(raw)+6)
	doc = append(doc, `{"v":`...)
	doc = append(doc, raw...)
	doc = append(doc, '}')

	var wrapped bson.Raw
	if err := bson.UnmarshalExtJSON(doc, false, &wrapped); err != nil {
		return bson.RawValue{}, errors.Wrap(err, "convert json to bson")
	}
	return wrapped.Lookup("v"), nil
}

// ToJSON renders a stored BSON value as relaxed JSON. A missing value is null.
func ToJSON(v bson.RawValue) (json.RawMessage, error) {
	if v.Type == 0 {
		return json.RawMessage("null"), nil
	}
	out, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, errors.Wrap(err, "convert bson to json")
	}
	var wrapped struct {
		V json.RawMessage `json:"v"`
	}
	if err := sonic.ConfigStd.Unmarshal(out, &wrapped); err != nil {
		return nil, errors.Wrap(err, "decode relaxed json")
	}
	return wrapped.V, nil
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
