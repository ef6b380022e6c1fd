package service

import (
	"context"
	"fmt"

	"orgmanager/internal/apperr"
	"orgmanager/internal/model"
	"orgmanager/internal/repository"
	"orgmanager/internal/telemetry"
	"orgmanager/pkg/timer"
	"orgmanager/pkg/token"
	"orgmanager/pkg/util"

	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid authentication credentials"
)

// TokenTypeBearer is reported to clients alongside an access token.
const TokenTypeBearer = "bearer"

// AuthService authenticates administrators and verifies their tokens.
type AuthService struct {
	admins repository.IAdminRepository
	orgs   repository.IOrgRepository
	hasher *util.PasswordHasher
	issuer *token.Issuer
	log    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(admins repository.IAdminRepository, orgs repository.IOrgRepository, hasher *util.PasswordHasher, issuer *token.Issuer, log *zap.Logger) *AuthService {
	return &AuthService{
		admins: admins,
		orgs:   orgs,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

// AuthenticateAdmin checks email and password. Unknown, inactive and
// wrong-password admins all fail with the same unauthorized error.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, email, password string) (id *model.AdminIdentity, err error) {
	const op = "auth.AuthenticateAdmin"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()
	defer timer.Track(s.log, op)()

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to look up admin: %w", err))
	}
	if admin == nil {
		return nil, apperr.Unauthorized(op, msgInvalidCredentials, nil)
	}
	if !admin.IsActive {
		s.log.Info("login attempt for inactive admin", zap.String("admin_id", admin.ID.Hex()))
		return nil, apperr.Unauthorized(op, msgInvalidCredentials, nil)
	}
	if !s.hasher.Verify(password, admin.HashedPassword) {
		return nil, apperr.Unauthorized(op, msgInvalidCredentials, nil)
	}

	identity := admin.Identity()
	return &identity, nil
}

// Login authenticates an admin and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	id, err := s.AuthenticateAdmin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	tok, err := s.issuer.Issue(id.ID, id.Email, id.OrganizationID, token.KindAdmin)
	if err != nil {
		return nil, apperr.Internal("auth.Login", err)
	}
	s.log.Info("admin logged in", zap.String("admin_id", id.ID), zap.String("organization_id", id.OrganizationID))

	return &model.TokenResponse{AccessToken: tok, TokenType: TokenTypeBearer}, nil
}

// Authorize verifies a bearer token and returns the identity it carries.
// Only signature and claims are checked; the admin is not looked up.
func (s *AuthService) Authorize(tokenString string) (*model.AdminIdentity, error) {
	const op = "auth.Authorize"

	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized(op, msgInvalidToken, err)
	}
	if claims.Kind != token.KindAdmin {
		return nil, apperr.Unauthorized(op, msgInvalidToken, fmt.Errorf("unexpected token type %q", claims.Kind))
	}
	if _, err := util.ParseObjectID(claims.Subject); err != nil {
		return nil, apperr.Unauthorized(op, msgInvalidToken, err)
	}

	return &model.AdminIdentity{
		ID:             claims.Subject,
		Email:          claims.Email,
		OrganizationID: claims.OrganizationID,
	}, nil
}

// ProvisionAdmin replaces every admin with email by a single active admin
// bound to the named organization.
func (s *AuthService) ProvisionAdmin(ctx context.Context, email, password, organizationName string) (admin *model.Admin, err error) {
	const op = "auth.ProvisionAdmin"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	if email == "" || password == "" {
		return nil, apperr.Invalid(op, "email and password are required")
	}

	org, err := s.orgs.FindByName(ctx, organizationName)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to look up organization: %w", err))
	}
	if org == nil {
		return nil, apperr.NotFound(op, fmt.Sprintf("Organization '%s' not found", organizationName))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	removed, err := s.admins.DeleteByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to remove existing admin: %w", err))
	}

	admin, err = s.admins.Create(ctx, &model.Admin{
		Email:          email,
		OrganizationID: org.ID.Hex(),
		HashedPassword: hash,
		IsActive:       true,
	})
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("failed to create admin: %w", err))
	}

	s.log.Info("admin provisioned",
		zap.String("admin_id", admin.ID.Hex()),
		zap.String("organization", org.OrganizationName),
		zap.Int64("replaced", removed))
	return admin, nil
}

// ResetPassword sets a new password on the admin with email.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) (err error) {
	const op = "auth.ResetPassword"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	if password == "" {
		return apperr.Invalid(op, "password is required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal(op, fmt.Errorf("failed to look up admin: %w", err))
	}
	if admin == nil {
		return apperr.NotFound(op, fmt.Sprintf("Admin '%s' not found", email))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.Internal(op, err)
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return apperr.Internal(op, fmt.Errorf("failed to update password: %w", err))
	}

	s.log.Info("admin password reset", zap.String("admin_id", admin.ID.Hex()))
	return nil
}
