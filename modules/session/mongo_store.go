package session

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const sessionsCollection = "sessions"

// MongoStore is the production Store backed by a mongo collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a Store over the sessions collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(sessionsCollection)}
}

// EnsureIndexes creates the indexes the listing queries rely on. Safe to
// call on every start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, f Filter, sort Sort, limit int64) ([]Session, error) {
	opts := options.Find()
	if sort.Field != "" {
		order := 1
		if sort.Desc {
			order = -1
		}
		opts.SetSort(bson.D{{Key: sort.Field, Value: order}})
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.coll.Find(ctx, filterToBSON(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (s *MongoStore) FindOne(ctx context.Context, f Filter) (*Session, error) {
	var session Session
	err := s.coll.FindOne(ctx, filterToBSON(f)).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (s *MongoStore) Insert(ctx context.Context, session Session) error {
	if _, err := s.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, f Filter, p Patch) (*Session, error) {
	set := bson.M{"updated_at": p.UpdatedAt}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.DataURL != nil {
		set["json_file_url"] = *p.DataURL
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}

	var updated Session
	err := s.coll.FindOneAndUpdate(
		ctx,
		filterToBSON(f),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return &updated, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, f Filter) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, filterToBSON(f))
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func filterToBSON(f Filter) bson.M {
	query := bson.M{}
	if f.ID != "" {
		query["_id"] = f.ID
	}
	if f.OwnerID != "" {
		query["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	return query
}
