package generic

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// MongoBaseRepository implements the single-collection operations shared by
// the concrete repositories. Lookups that match nothing return a nil entity and
// a nil error.
type MongoBaseRepository[T Entity] struct {
	Collection *mongo.Collection
}

func NewBaseRepository[T Entity](collection *mongo.Collection) *MongoBaseRepository[T] {
	return &MongoBaseRepository[T]{Collection: collection}
}

// Insert assigns an ObjectID when the entity has none and inserts it.
func (r *MongoBaseRepository[T]) Insert(ctx context.Context, entity T) error {
	if entity.GetID().IsZero() {
		entity.SetID(primitive.NewObjectID())
	}
	_, err := r.Collection.InsertOne(ctx, entity)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// FindOne returns the first document matching filter.
func (r *MongoBaseRepository[T]) FindOne(ctx context.Context, filter interface{}) (T, error) {
	var entity T
	err := r.Collection.FindOne(ctx, filter).Decode(&entity)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, nil
		}
		return zero, err
	}
	return entity, nil
}

// GetByID returns the document with the given id.
func (r *MongoBaseRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

// Find returns every document matching filter.
func (r *MongoBaseRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := r.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFields applies a $set to the document with the given id and returns the
// updated document.
func (r *MongoBaseRepository[T]) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (T, error) {
	var entity T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&entity)
	if err != nil {
		var zero T
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return zero, nil
		case mongo.IsDuplicateKeyError(err):
			return zero, ErrDuplicateKey
		}
		return zero, err
	}
	return entity, nil
}

// DeleteByID removes the document with the given id and reports whether one
// was deleted.
func (r *MongoBaseRepository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Exists reports whether any document matches filter.
func (r *MongoBaseRepository[T]) Exists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := r.Collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
