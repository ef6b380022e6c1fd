package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const copyBatchSize = 500

// ICollectionRepository manages the per-organization tenant collections.
type ICollectionRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Copy(ctx context.Context, from, to string) (int64, error)
}

// CollectionRepository operates on raw collections of the database.
type CollectionRepository struct {
	db *mongo.Database
}

func NewCollectionRepository(db *mongo.Database) ICollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Exists(ctx context.Context, name string) (bool, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

// Copy inserts every document of from into to, in batches. It is not
// transactional: a failure part way leaves the documents copied so far, and
// the returned count is the number actually written.
func (r *CollectionRepository) Copy(ctx context.Context, from, to string) (int64, error) {
	cursor, err := r.db.Collection(from).Find(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", from, err)
	}
	defer cursor.Close(ctx)

	target := r.db.Collection(to)
	var copied int64
	batch := make([]interface{}, 0, copyBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := target.InsertMany(ctx, batch)
		copied += insertedCount(len(batch), err)
		batch = batch[:0]
		return err
	}

	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return copied, fmt.Errorf("failed to decode document: %w", err)
		}
		batch = append(batch, doc)
		if len(batch) == copyBatchSize {
			if err := flush(); err != nil {
				return copied, fmt.Errorf("failed to write %s: %w", to, err)
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return copied, err
	}
	if err := flush(); err != nil {
		return copied, fmt.Errorf("failed to write %s: %w", to, err)
	}
	return copied, nil
}

// insertedCount returns how many documents of an ordered InsertMany of n
// documents were written. InsertedIDs lists the whole batch even when the
// insert fails, so the count comes from the error: an ordered insert stops at
// the first write error, and a write concern error alone leaves every
// document written.
func insertedCount(n int, err error) int64 {
	if err == nil {
		return int64(n)
	}
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0
	}
	if len(bwe.WriteErrors) == 0 {
		if bwe.WriteConcernError != nil {
			return int64(n)
		}
		return 0
	}
	first := n
	for _, we := range bwe.WriteErrors {
		if we.Index < first {
			first = we.Index
		}
	}
	return int64(first)
}
