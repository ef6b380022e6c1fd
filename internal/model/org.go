package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is a tenant record in the "organizations" collection.
// CollectionName is derived from OrganizationName and unique directory-wide.
type Organization struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationName string             `bson:"organization_name" json:"organization_name"`
	CollectionName   string             `bson:"collection_name" json:"collection_name"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (o *Organization) GetID() primitive.ObjectID   { return o.ID }
func (o *Organization) SetID(id primitive.ObjectID) { o.ID = id }

// OrganizationResponse is the client-facing shape of an Organization.
type OrganizationResponse struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	CollectionName   string    `json:"collection_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToResponse converts Organization to OrganizationResponse
func (o *Organization) ToResponse() OrganizationResponse {
	return OrganizationResponse{
		ID:               o.ID.Hex(),
		OrganizationName: o.OrganizationName,
		CollectionName:   o.CollectionName,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// OrgCreateRequest is the body of POST /org/create
type OrgCreateRequest struct {
	OrganizationName string `json:"organization_name" binding:"required,min=1,max=100"`
	AdminEmail       string `json:"admin_email" binding:"required,email"`
	AdminPassword    string `json:"admin_password" binding:"required,min=6"`
}

// OrgUpdateRequest is the body of PUT /org/update
type OrgUpdateRequest struct {
	CurrentOrganizationName string `json:"current_organization_name" binding:"required"`
	NewOrganizationName     string `json:"new_organization_name" binding:"required,min=1,max=100"`
	AdminEmail              string `json:"admin_email" binding:"required,email"`
	AdminPassword           string `json:"admin_password" binding:"required,min=6"`
}

// OrgCreateInput is what the directory needs to create an organization.
// The admin is provisioned only when both AdminEmail and AdminPassword are set.
type OrgCreateInput struct {
	OrganizationName string
	CollectionName   string
	AdminEmail       string
	AdminPassword    string
}

// OrgUpdateInput renames an organization found by CurrentName.
type OrgUpdateInput struct {
	CurrentName    string
	NewName        string
	CollectionName string
	AdminEmail     string
	AdminPassword  string
}

// OrgNameQuery is the query string of GET /org/get and DELETE /org/delete
type OrgNameQuery struct {
	OrganizationName string `form:"organization_name" binding:"required"`
}
