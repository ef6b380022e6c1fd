package service

import (
	"context"
	"errors"
	"testing"

	"orgmanager/internal/apperr"
	"orgmanager/internal/model"
	"orgmanager/internal/repository"
	"orgmanager/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestOrgService_CreateWithAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, model.OrgCreateInput{
		OrganizationName: "Acme Co",
		AdminEmail:       "a@x.com",
		AdminPassword:    "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "org_acme_co", org.CollectionName)
	assert.False(t, org.ID.IsZero())

	admin, err := env.store.Admins().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, org.ID.Hex(), admin.OrganizationID)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "secret123", admin.HashedPassword)
}

func TestOrgService_CreateWithoutAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Solo", AdminEmail: "a@x.com"})
	require.NoError(t, err)

	admin, err := env.store.Admins().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, admin, "an admin needs both email and password")
}

func TestOrgService_CreateCollectionOverride(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme", CollectionName: "tenant_acme"})
	require.NoError(t, err)
	assert.Equal(t, "tenant_acme", org.CollectionName)

	_, err = env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Bad", CollectionName: "system.bad"})
	assert.True(t, apperr.Is(err, apperr.EInvalid))
}

func TestOrgService_CreateConflict(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme"})
	require.NoError(t, err)

	_, err = env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "ACME"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.EConflict))
	assert.Equal(t, "Organization with collection name 'org_acme' already exists", apperr.Message(err))

	list, err := env.orgs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "the directory is unchanged after a conflict")
}

func TestOrgService_CreateInvalidName(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.orgs.Create(context.Background(), model.OrgCreateInput{OrganizationName: ""})
	assert.True(t, apperr.Is(err, apperr.EInvalid))
}

func TestOrgService_GetByName(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	created, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme Co"})
	require.NoError(t, err)

	org, err := env.orgs.GetByName(ctx, "Acme Co")
	require.NoError(t, err)
	assert.Equal(t, created.ID, org.ID)

	_, err = env.orgs.GetByName(ctx, "acme co")
	assert.True(t, apperr.Is(err, apperr.ENotFound))
	assert.Equal(t, "Organization 'acme co' not found", apperr.Message(err))
}

func TestOrgService_RenameByName(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	created, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme Co"})
	require.NoError(t, err)

	org, err := env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme Co", NewName: "Acme Global"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, org.ID)
	assert.Equal(t, "Acme Global", org.OrganizationName)
	assert.Equal(t, "org_acme_global", org.CollectionName)
	assert.False(t, org.UpdatedAt.Before(created.UpdatedAt))

	_, err = env.orgs.GetByName(ctx, "Acme Co")
	assert.True(t, apperr.Is(err, apperr.ENotFound))
}

func TestOrgService_RenameKeepsOwnCollectionName(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme"})
	require.NoError(t, err)

	org, err := env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme", NewName: "ACME"})
	require.NoError(t, err, "re-deriving to its own collection name is not a conflict")
	assert.Equal(t, "org_acme", org.CollectionName)
}

func TestOrgService_RenameConflictWithOtherOrg(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme"})
	require.NoError(t, err)
	_, err = env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Beta"})
	require.NoError(t, err)

	_, err = env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Beta", NewName: "acme"})
	assert.True(t, apperr.Is(err, apperr.EConflict))

	_, err = env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Beta", NewName: "Beta 2", CollectionName: "org_acme"})
	assert.True(t, apperr.Is(err, apperr.EConflict))

	beta, err := env.orgs.GetByName(ctx, "Beta")
	require.NoError(t, err)
	assert.Equal(t, "org_beta", beta.CollectionName)
}

func TestOrgService_RenameNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.orgs.RenameByName(context.Background(), model.OrgUpdateInput{CurrentName: "Ghost", NewName: "Spirit"})
	assert.True(t, apperr.Is(err, apperr.ENotFound))
}

func TestOrgService_RenameStrictCredentials(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme", AdminEmail: "a@x.com", AdminPassword: "secret123"})
	require.NoError(t, err)
	_, err = env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Beta", AdminEmail: "b@x.com", AdminPassword: "secret456"})
	require.NoError(t, err)

	_, err = env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme", NewName: "Acme 2", AdminEmail: "a@x.com", AdminPassword: "wrong-pass"})
	assert.True(t, apperr.Is(err, apperr.EUnauthorized))

	_, err = env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme", NewName: "Acme 2", AdminEmail: "b@x.com", AdminPassword: "secret456"})
	assert.True(t, apperr.Is(err, apperr.EUnauthorized), "an admin of another organization cannot rename")

	org, err := env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme", NewName: "Acme 2", AdminEmail: "a@x.com", AdminPassword: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "org_acme_2", org.CollectionName)
}

func TestOrgService_RenameLenientIgnoresCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme"})
	require.NoError(t, err)

	_, err = env.orgs.RenameByName(ctx, model.OrgUpdateInput{CurrentName: "Acme", NewName: "Acme 2", AdminEmail: "nobody@x.com", AdminPassword: "whatever"})
	assert.NoError(t, err)
}

func TestOrgService_DeleteDoesNotCascade(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme", AdminEmail: "a@x.com", AdminPassword: "secret123"})
	require.NoError(t, err)

	deleted, err := env.orgs.DeleteByName(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.orgs.DeleteByName(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, deleted)

	admin, err := env.store.Admins().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, org.ID.Hex(), admin.OrganizationID)

	// The orphaned admin can still log in.
	_, err = env.auth.Login(ctx, "a@x.com", "secret123")
	assert.NoError(t, err)
}

func TestOrgService_DeleteByCollectionName(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, model.OrgCreateInput{OrganizationName: "Acme Corp"})
	require.NoError(t, err)

	deleted, err := env.orgs.DeleteByCollectionName(ctx, "org_acme_corp")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.orgs.DeleteByCollectionName(ctx, "org_acme_corp")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrgService_StoreErrorsAreInternal(t *testing.T) {
	env := newTestEnv(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.orgs.GetByName(ctx, "Acme")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.EInternal), "store failures are never reported as not found")
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingAdmins struct {
	repository.IAdminRepository
	err error
}

func (f failingAdmins) Create(ctx context.Context, admin *model.Admin) (*model.Admin, error) {
	return nil, f.err
}

func TestOrgService_CreateAdminFailureKeepsOrganization(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	boom := errors.New("boom")

	admins := failingAdmins{IAdminRepository: env.store.Admins(), err: boom}
	orgs := NewOrgService(env.cfg, env.store.Orgs(), admins, env.auth, util.NewPasswordHasher(bcrypt.MinCost), zap.NewNop())

	_, err := orgs.Create(ctx, model.OrgCreateInput{
		OrganizationName: "Acme",
		AdminEmail:       "a@x.com",
		AdminPassword:    "secret123",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.EInternal))
	assert.ErrorIs(t, err, boom)

	org, err := orgs.GetByName(ctx, "Acme")
	require.NoError(t, err, "the organization is not rolled back")
	assert.Equal(t, "org_acme", org.CollectionName)

	admin, err := env.store.Admins().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, admin)
}
