package server

import (
	"context"
	"fmt"
	"time"

	"orgmanager/internal/config"
	"orgmanager/internal/handler"
	"orgmanager/internal/repository"
	"orgmanager/internal/service"
	"orgmanager/pkg/token"
	"orgmanager/pkg/util"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Repositories groups the store layer.
type Repositories struct {
	Orgs        repository.IOrgRepository
	Admins      repository.IAdminRepository
	Collections repository.ICollectionRepository
}

// Services groups the business layer.
type Services struct {
	Auth    *service.AuthService
	Org     *service.OrgService
	Migrate *service.MigrateService
}

// Handlers groups the HTTP layer.
type Handlers struct {
	Admin *handler.AdminHandler
	Org   *handler.OrgHandler
}

// Store is an opened store backend.
type Store struct {
	Repositories *Repositories
	client       *mongo.Client
}

// Close disconnects the MongoDB client, if any.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// OpenStore opens the configured backend and makes sure its indexes exist.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	var store *Store
	switch cfg.Store.Backend {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		store = &Store{Repositories: InitMemoryRepositories(repository.NewMemoryStore())}
	default:
		client, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))
		store = &Store{
			Repositories: InitRepositories(client.Database(cfg.Mongo.Database)),
			client:       client,
		}
	}

	if err := EnsureIndexes(ctx, store.Repositories); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func InitRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Orgs:        repository.NewOrgRepository(db),
		Admins:      repository.NewAdminRepository(db),
		Collections: repository.NewCollectionRepository(db),
	}
}

func InitMemoryRepositories(store *repository.MemoryStore) *Repositories {
	return &Repositories{
		Orgs:        store.Orgs(),
		Admins:      store.Admins(),
		Collections: store.Collections(),
	}
}

// EnsureIndexes creates the indexes the directory relies on.
func EnsureIndexes(ctx context.Context, repos *Repositories) error {
	if err := repos.Orgs.EnsureIndexes(ctx); err != nil {
		return err
	}
	return repos.Admins.EnsureIndexes(ctx)
}

func InitServices(cfg *config.Config, repos *Repositories, log *zap.Logger) (*Services, error) {
	issuer, err := token.NewIssuer(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}
	if cfg.UsingDefaultSecret() {
		log.Warn("JWT_SECRET_KEY is not set, signing tokens with the development secret")
	}

	hasher := util.NewPasswordHasher(cfg.Security.BcryptCost)
	auth := service.NewAuthService(repos.Admins, repos.Orgs, hasher, issuer, log.Named("auth"))

	return &Services{
		Auth:    auth,
		Org:     service.NewOrgService(cfg, repos.Orgs, repos.Admins, auth, hasher, log.Named("org")),
		Migrate: service.NewMigrateService(repos.Collections, log.Named("migrate")),
	}, nil
}

func InitHandlers(s *Services) *Handlers {
	return &Handlers{
		Admin: handler.NewAdminHandler(s.Auth),
		Org:   handler.NewOrgHandler(s.Org),
	}
}
