package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"threadchat/internal/db"
	"threadchat/internal/model"
)

type mongoThreadRepository struct {
	col *mongo.Collection
}

// NewMongoThreadRepository builds a thread store keeping each thread as one
// document with an embedded message array.
func NewMongoThreadRepository(d *mongo.Database) ThreadRepository {
	return &mongoThreadRepository{col: d.Collection(db.ThreadsCollection)}
}

func ownerFilter(userID, threadID string) bson.M {
	return bson.M{"user_id": userID, "thread_id": threadID}
}

func (r *mongoThreadRepository) ListByUser(ctx context.Context, userID string) ([]model.Thread, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"_id": 0, "user_id": 1, "thread_id": 1, "title": 1, "messages": 1, "created_at": 1, "updated_at": 1})

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	threads := []model.Thread{}
	if err := cur.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("decode threads: %w", err)
	}
	return threads, nil
}

func (r *mongoThreadRepository) FindMessages(ctx context.Context, userID, threadID string) ([]model.Message, error) {
	var doc struct {
		Messages []model.Message `bson:"messages"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "messages": 1})
	if err := r.col.FindOne(ctx, ownerFilter(userID, threadID), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find thread: %w", err)
	}
	if doc.Messages == nil {
		return []model.Message{}, nil
	}
	return doc.Messages, nil
}

// AppendTurn is a single upsert: the filter fields and title are written only
// when the document is created, messages are pushed in order either way.
func (r *mongoThreadRepository) AppendTurn(ctx context.Context, userID, threadID, title string, messages []model.Message) error {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"title":      title,
			"created_at": now,
		},
		"$push": bson.M{
			"messages": bson.M{"$each": messages},
		},
		"$set": bson.M{
			"updated_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, ownerFilter(userID, threadID), update, opts); err != nil {
		return fmt.Errorf("upsert thread: %w", err)
	}
	return nil
}

func (r *mongoThreadRepository) Delete(ctx context.Context, userID, threadID string) error {
	res, err := r.col.DeleteOne(ctx, ownerFilter(userID, threadID))
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
