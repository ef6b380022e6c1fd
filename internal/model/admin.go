package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is an organization administrator in the "admins" collection.
// OrganizationID references the owning organization by hex id; deleting the
// organization leaves the admin in place.
type Admin struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	OrganizationID string             `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"` // never expose
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (a *Admin) GetID() primitive.ObjectID   { return a.ID }
func (a *Admin) SetID(id primitive.ObjectID) { a.ID = id }

// UnmarshalBSON decodes an admin document. Documents written without an
// is_active field are active; only an explicit false disables the admin.
func (a *Admin) UnmarshalBSON(data []byte) error {
	type admin Admin
	doc := admin{IsActive: true}
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*a = Admin(doc)
	return nil
}

// AdminIdentity is the authenticated view of an admin, also carried in tokens.
type AdminIdentity struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// Identity returns the admin's identity claims.
func (a *Admin) Identity() AdminIdentity {
	return AdminIdentity{
		ID:             a.ID.Hex(),
		Email:          a.Email,
		OrganizationID: a.OrganizationID,
	}
}

// AdminLoginRequest is the body of POST /admin/login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
