package service

import (
	"context"
	"testing"

	"orgmanager/internal/apperr"
	"orgmanager/internal/model"
	"orgmanager/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedOrg(t *testing.T, env *testEnv, name, email, password string) *model.Organization {
	t.Helper()
	org, err := env.orgs.Create(context.Background(), model.OrgCreateInput{
		OrganizationName: name,
		AdminEmail:       email,
		AdminPassword:    password,
	})
	require.NoError(t, err)
	return org
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t, false)
	org := seedOrg(t, env, "Acme", "a@x.com", "secret123")

	resp, err := env.auth.Login(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := env.issuer.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, org.ID.Hex(), claims.OrganizationID)
	assert.Equal(t, token.KindAdmin, claims.Kind)

	id, err := env.auth.Authorize(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, id.ID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t, false)
	seedOrg(t, env, "Acme", "a@x.com", "secret123")
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"a@x.com", "wrong"},
		{"nobody@x.com", "secret123"},
		{"A@X.COM", "secret123"},
	} {
		_, err := env.auth.Login(ctx, tc.email, tc.password)
		assert.True(t, apperr.Is(err, apperr.EUnauthorized), "%s/%s", tc.email, tc.password)
		assert.Equal(t, "Invalid email or password", apperr.Message(err))
	}
}

func TestAuthService_InactiveAdminRejected(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	hash, err := env.orgs.hasher.Hash("secret123")
	require.NoError(t, err)
	_, err = env.store.Admins().Create(ctx, &model.Admin{Email: "off@x.com", HashedPassword: hash, IsActive: false})
	require.NoError(t, err)

	_, err = env.auth.AuthenticateAdmin(ctx, "off@x.com", "secret123")
	assert.True(t, apperr.Is(err, apperr.EUnauthorized))
}

func TestAuthService_AdminWithoutActiveFlagAuthenticates(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	hash, err := env.orgs.hasher.Hash("secret123")
	require.NoError(t, err)
	raw, err := bson.Marshal(bson.M{
		"_id":             primitive.NewObjectID(),
		"email":           "legacy@x.com",
		"hashed_password": hash,
	})
	require.NoError(t, err)

	var legacy model.Admin
	require.NoError(t, bson.Unmarshal(raw, &legacy))
	_, err = env.store.Admins().Create(ctx, &legacy)
	require.NoError(t, err)

	id, err := env.auth.AuthenticateAdmin(ctx, "legacy@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID.Hex(), id.ID)
}

func TestAuthService_AuthorizeRejects(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.auth.Authorize("garbage")
	assert.True(t, apperr.Is(err, apperr.EUnauthorized))

	other, err := env.issuer.Issue("65f1c0ffee0000000000abcd", "a@x.com", "", "service")
	require.NoError(t, err)
	_, err = env.auth.Authorize(other)
	assert.True(t, apperr.Is(err, apperr.EUnauthorized), "only admin tokens are accepted")

	opaque, err := env.issuer.Issue("not-an-object-id", "a@x.com", "", token.KindAdmin)
	require.NoError(t, err)
	_, err = env.auth.Authorize(opaque)
	assert.True(t, apperr.Is(err, apperr.EUnauthorized))
}

func TestAuthService_ProvisionAdminReplaces(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	org := seedOrg(t, env, "Acme Global", "admin@acme.com", "old-password")

	admin, err := env.auth.ProvisionAdmin(ctx, "admin@acme.com", "StrongPass123!", "Acme Global")
	require.NoError(t, err)
	assert.Equal(t, org.ID.Hex(), admin.OrganizationID)

	_, err = env.auth.Login(ctx, "admin@acme.com", "old-password")
	assert.True(t, apperr.Is(err, apperr.EUnauthorized))
	_, err = env.auth.Login(ctx, "admin@acme.com", "StrongPass123!")
	assert.NoError(t, err)

	_, err = env.auth.ProvisionAdmin(ctx, "admin@acme.com", "StrongPass123!", "Missing Org")
	assert.True(t, apperr.Is(err, apperr.ENotFound))
}

func TestAuthService_ResetPassword(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedOrg(t, env, "Acme", "a@x.com", "secret123")

	require.NoError(t, env.auth.ResetPassword(ctx, "a@x.com", "new-secret"))
	_, err := env.auth.Login(ctx, "a@x.com", "new-secret")
	assert.NoError(t, err)

	err = env.auth.ResetPassword(ctx, "nobody@x.com", "new-secret")
	assert.True(t, apperr.Is(err, apperr.ENotFound))

	err = env.auth.ResetPassword(ctx, "a@x.com", "")
	assert.True(t, apperr.Is(err, apperr.EInvalid))
}
