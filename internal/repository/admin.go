package repository

import (
	"context"
	"fmt"
	"time"

	"orgmanager/internal/model"
	"orgmanager/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IAdminRepository defines administrator persistence
type IAdminRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, admin *model.Admin) (*model.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

// AdminRepository implements admin persistence
type AdminRepository struct {
	*generic.MongoBaseRepository[*model.Admin]
}

func NewAdminRepository(db *mongo.Database) IAdminRepository {
	return &AdminRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Admin](db.Collection(AdminsCollection)),
	}
}

// EnsureIndexes creates a non-unique email index. Email uniqueness is not
// enforced by the store.
func (r *AdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	return nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) (*model.Admin, error) {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if err := r.Insert(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Admin, error) {
	return r.GetByID(ctx, id)
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	admin, err := r.SetFields(ctx, id, bson.M{
		"hashed_password": hashedPassword,
		"updated_at":      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if admin == nil {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AdminRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
