package service

import (
	"testing"
	"time"

	"orgmanager/internal/config"
	"orgmanager/internal/repository"
	"orgmanager/pkg/token"
	"orgmanager/pkg/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "service-test-secret"

type testEnv struct {
	cfg     *config.Config
	store   *repository.MemoryStore
	issuer  *token.Issuer
	auth    *AuthService
	orgs    *OrgService
	migrate *MigrateService
}

func newTestEnv(t *testing.T, strictRename bool) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Directory: config.DirectoryConfig{VerifyRenameCredentials: strictRename},
	}
	issuer, err := token.NewIssuer(testSecret, "HS256", time.Hour)
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	hasher := util.NewPasswordHasher(bcrypt.MinCost)
	log := zap.NewNop()

	auth := NewAuthService(store.Admins(), store.Orgs(), hasher, issuer, log)
	return &testEnv{
		cfg:     cfg,
		store:   store,
		issuer:  issuer,
		auth:    auth,
		orgs:    NewOrgService(cfg, store.Orgs(), store.Admins(), auth, hasher, log),
		migrate: NewMigrateService(store.Collections(), log),
	}
}
