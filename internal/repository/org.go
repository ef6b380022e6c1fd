package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgmanager/internal/model"
	"orgmanager/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// OrganizationsCollection holds one document per organization.
	OrganizationsCollection = "organizations"
	// AdminsCollection holds administrator accounts.
	AdminsCollection = "admins"
)

// ErrDuplicateCollectionName is returned when a write would give two
// organizations the same collection name.
var ErrDuplicateCollectionName = errors.New("collection name already in use")

// IOrgRepository defines organization persistence
type IOrgRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, org *model.Organization) (*model.Organization, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error)
	FindByName(ctx context.Context, name string) (*model.Organization, error)
	FindByCollectionName(ctx context.Context, collectionName string) (*model.Organization, error)
	// CollectionNameTaken reports whether an organization other than exclude
	// already uses collectionName. Pass primitive.NilObjectID to check all.
	CollectionNameTaken(ctx context.Context, collectionName string, exclude primitive.ObjectID) (bool, error)
	Rename(ctx context.Context, id primitive.ObjectID, name, collectionName string) (*model.Organization, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]*model.Organization, error)
}

// OrgRepository implements org persistence
type OrgRepository struct {
	*generic.MongoBaseRepository[*model.Organization]
}

func NewOrgRepository(db *mongo.Database) IOrgRepository {
	return &OrgRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Organization](db.Collection(OrganizationsCollection)),
	}
}

// EnsureIndexes creates the unique collection_name index that closes the
// check-then-insert race between concurrent creates, plus a lookup index on
// organization_name.
func (r *OrgRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "collection_name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_collection_name"),
		},
		{
			Keys:    bson.D{{Key: "organization_name", Value: 1}},
			Options: options.Index().SetName("idx_organization_name"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create organization indexes: %w", err)
	}
	return nil
}

func (r *OrgRepository) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	if err := r.Insert(ctx, org); err != nil {
		if errors.Is(err, generic.ErrDuplicateKey) {
			return nil, ErrDuplicateCollectionName
		}
		return nil, err
	}
	return org, nil
}

func (r *OrgRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	return r.GetByID(ctx, id)
}

func (r *OrgRepository) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	return r.FindOne(ctx, bson.M{"organization_name": name})
}

func (r *OrgRepository) FindByCollectionName(ctx context.Context, collectionName string) (*model.Organization, error) {
	return r.FindOne(ctx, bson.M{"collection_name": collectionName})
}

func (r *OrgRepository) CollectionNameTaken(ctx context.Context, collectionName string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"collection_name": collectionName}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return r.Exists(ctx, filter)
}

func (r *OrgRepository) Rename(ctx context.Context, id primitive.ObjectID, name, collectionName string) (*model.Organization, error) {
	org, err := r.SetFields(ctx, id, bson.M{
		"organization_name": name,
		"collection_name":   collectionName,
		"updated_at":        time.Now().UTC(),
	})
	if errors.Is(err, generic.ErrDuplicateKey) {
		return nil, ErrDuplicateCollectionName
	}
	return org, err
}

func (r *OrgRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.DeleteByID(ctx, id)
}

func (r *OrgRepository) List(ctx context.Context) ([]*model.Organization, error) {
	return r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}
