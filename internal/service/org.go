package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"orgmanager/internal/apperr"
	"orgmanager/internal/config"
	"orgmanager/internal/model"
	"orgmanager/internal/repository"
	"orgmanager/internal/telemetry"
	"orgmanager/pkg/timer"
	"orgmanager/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxOrganizationNameLength bounds organization display names, in runes.
const MaxOrganizationNameLength = 100

// OrgService handles organization business logic
type OrgService struct {
	cfg    *config.Config
	orgs   repository.IOrgRepository
	admins repository.IAdminRepository
	auth   *AuthService
	hasher *util.PasswordHasher
	log    *zap.Logger
}

// NewOrgService creates a new organization service
func NewOrgService(cfg *config.Config, orgs repository.IOrgRepository, admins repository.IAdminRepository, auth *AuthService, hasher *util.PasswordHasher, log *zap.Logger) *OrgService {
	return &OrgService{
		cfg:    cfg,
		orgs:   orgs,
		admins: admins,
		auth:   auth,
		hasher: hasher,
		log:    log,
	}
}

func conflictMessage(collectionName string) string {
	return fmt.Sprintf("Organization with collection name '%s' already exists", collectionName)
}

func notFoundMessage(name string) string {
	return fmt.Sprintf("Organization '%s' not found", name)
}

func validateName(op, name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxOrganizationNameLength {
		return apperr.Invalid(op, fmt.Sprintf("organization name must be between 1 and %d characters", MaxOrganizationNameLength))
	}
	return nil
}

// resolveCollectionName returns override when set, after validating it, and
// the name derived from displayName otherwise.
func resolveCollectionName(op, displayName, override string) (string, error) {
	if override == "" {
		return DeriveCollectionName(displayName), nil
	}
	if err := util.ValidateCollectionName(override); err != nil {
		return "", apperr.Invalid(op, err.Error())
	}
	return override, nil
}

// Create registers an organization and, when both admin fields are set, its
// administrator. A failure to create the admin leaves the organization in
// place and is reported as an internal error.
func (s *OrgService) Create(ctx context.Context, in model.OrgCreateInput) (org *model.Organization, err error) {
	const op = "org.Create"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()
	defer timer.Track(s.log, op)()

	if err := validateName(op, in.OrganizationName); err != nil {
		return nil, err
	}
	collectionName, err := resolveCollectionName(op, in.OrganizationName, in.CollectionName)
	if err != nil {
		return nil, err
	}

	taken, err := s.orgs.CollectionNameTaken(ctx, collectionName, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to check collection name: %w", err))
	}
	if taken {
		return nil, apperr.Conflict(op, conflictMessage(collectionName))
	}

	org, err = s.orgs.Create(ctx, &model.Organization{
		OrganizationName: in.OrganizationName,
		CollectionName:   collectionName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCollectionName) {
			return nil, apperr.Conflict(op, conflictMessage(collectionName))
		}
		return nil, apperr.Internal(op, fmt.Errorf("failed to create organization: %w", err))
	}

	s.log.Info("organization created",
		zap.String("organization_id", org.ID.Hex()),
		zap.String("collection_name", org.CollectionName))

	if in.AdminEmail == "" || in.AdminPassword == "" {
		return org, nil
	}

	if err := s.createAdmin(ctx, org, in.AdminEmail, in.AdminPassword); err != nil {
		s.log.Error("organization left without admin",
			zap.String("organization_id", org.ID.Hex()),
			zap.Error(err))
		return nil, apperr.Internal(op, err)
	}
	return org, nil
}

func (s *OrgService) createAdmin(ctx context.Context, org *model.Organization, email, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	admin, err := s.admins.Create(ctx, &model.Admin{
		Email:          email,
		OrganizationID: org.ID.Hex(),
		HashedPassword: hash,
		IsActive:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("admin created",
		zap.String("admin_id", admin.ID.Hex()),
		zap.String("organization_id", org.ID.Hex()))
	return nil
}

// GetByName returns the organization with exactly this display name.
func (s *OrgService) GetByName(ctx context.Context, name string) (org *model.Organization, err error) {
	const op = "org.GetByName"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	org, err = s.orgs.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to get organization: %w", err))
	}
	if org == nil {
		return nil, apperr.NotFound(op, notFoundMessage(name))
	}
	return org, nil
}

// RenameByName renames the organization currently named in.CurrentName.
// A new name re-derives the collection name unless in.CollectionName
// overrides it. When directory credential verification is enabled the admin
// in the request must authenticate and belong to the organization.
func (s *OrgService) RenameByName(ctx context.Context, in model.OrgUpdateInput) (org *model.Organization, err error) {
	const op = "org.RenameByName"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()
	defer timer.Track(s.log, op)()

	current, err := s.orgs.FindByName(ctx, in.CurrentName)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to get organization: %w", err))
	}
	if current == nil {
		return nil, apperr.NotFound(op, notFoundMessage(in.CurrentName))
	}

	if s.cfg.Directory.VerifyRenameCredentials {
		if err := s.checkOwner(ctx, current, in.AdminEmail, in.AdminPassword); err != nil {
			return nil, err
		}
	}

	newName := current.OrganizationName
	collectionName := current.CollectionName
	if in.NewName != "" {
		if err := validateName(op, in.NewName); err != nil {
			return nil, err
		}
		newName = in.NewName
		collectionName = DeriveCollectionName(newName)
	}
	if in.CollectionName != "" {
		if collectionName, err = resolveCollectionName(op, newName, in.CollectionName); err != nil {
			return nil, err
		}
	}

	taken, err := s.orgs.CollectionNameTaken(ctx, collectionName, current.ID)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to check collection name: %w", err))
	}
	if taken {
		return nil, apperr.Conflict(op, conflictMessage(collectionName))
	}

	org, err = s.orgs.Rename(ctx, current.ID, newName, collectionName)
	switch {
	case errors.Is(err, repository.ErrDuplicateCollectionName):
		return nil, apperr.Conflict(op, conflictMessage(collectionName))
	case err != nil:
		return nil, apperr.Internal(op, fmt.Errorf("failed to update organization: %w", err))
	case org == nil:
		return nil, apperr.NotFound(op, notFoundMessage(in.CurrentName))
	}

	s.log.Info("organization renamed",
		zap.String("organization_id", org.ID.Hex()),
		zap.String("collection_name", org.CollectionName))
	return org, nil
}

func (s *OrgService) checkOwner(ctx context.Context, org *model.Organization, email, password string) error {
	const op = "org.RenameByName"

	id, err := s.auth.AuthenticateAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if id.OrganizationID != org.ID.Hex() {
		return apperr.Unauthorized(op, "Admin is not authorized for this organization", nil)
	}
	return nil
}

// DeleteByName removes the organization with this display name and reports
// whether one existed. Its admins and tenant collection are left untouched.
func (s *OrgService) DeleteByName(ctx context.Context, name string) (deleted bool, err error) {
	const op = "org.DeleteByName"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	org, err := s.orgs.FindByName(ctx, name)
	if err != nil {
		return false, apperr.Internal(op, fmt.Errorf("failed to get organization: %w", err))
	}
	return s.delete(ctx, op, org)
}

// DeleteByCollectionName removes the organization owning collectionName.
func (s *OrgService) DeleteByCollectionName(ctx context.Context, collectionName string) (deleted bool, err error) {
	const op = "org.DeleteByCollectionName"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	org, err := s.orgs.FindByCollectionName(ctx, collectionName)
	if err != nil {
		return false, apperr.Internal(op, fmt.Errorf("failed to get organization: %w", err))
	}
	return s.delete(ctx, op, org)
}

func (s *OrgService) delete(ctx context.Context, op string, org *model.Organization) (bool, error) {
	if org == nil {
		return false, nil
	}
	deleted, err := s.orgs.Delete(ctx, org.ID)
	if err != nil {
		return false, apperr.Internal(op, fmt.Errorf("failed to delete organization: %w", err))
	}
	if deleted {
		s.log.Info("organization deleted",
			zap.String("organization_id", org.ID.Hex()),
			zap.String("collection_name", org.CollectionName))
	}
	return deleted, nil
}

// List returns every organization, oldest first.
func (s *OrgService) List(ctx context.Context) ([]*model.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, apperr.Internal("org.List", fmt.Errorf("failed to list organizations: %w", err))
	}
	return orgs, nil
}
