package di

import (
	"context"
	"fmt"

	"pulse-backend/application/ports"
	"pulse-backend/application/services"
	domaincfg "pulse-backend/domain/config"
	"pulse-backend/infrastructure/config"
	dynamostore "pulse-backend/infrastructure/persistence/dynamodb"
	filestore "pulse-backend/infrastructure/persistence/file"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stores bundles the persistence ports so the backend switch happens in
// one place
type Stores struct {
	Graph         ports.GraphStore
	Content       ports.ContentStore
	Notifications ports.NotificationStore
	Sequence      ports.Sequence
	Users         ports.UserRepository
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideMetrics creates the metrics instance
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("pulse")
}

// ProvideLimitsHolder creates the shared domain-limits holder, seeded
// with defaults. The limits watcher (if enabled) swaps values in later.
func ProvideLimitsHolder() *domaincfg.Holder {
	return domaincfg.NewHolder(nil)
}

// ProvideTokenManager creates the session token manager. Development
// runs get a fixed secret so restarts do not invalidate sessions.
func ProvideTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "dev-only-insecure-secret"
	}

	return auth.NewTokenManager(auth.TokenManagerConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideStores creates the persistence layer for the configured
// backend
func ProvideStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		store, err := filestore.NewStore(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Graph:         store,
			Content:       store,
			Notifications: store,
			Sequence:      store,
			Users:         store,
		}, nil

	case config.BackendDynamoDB:
		client, err := dynamostore.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}

		return &Stores{
			Graph:         dynamostore.NewGraphStore(client, cfg.DynamoDBTable, cfg.IndexName, logger),
			Content:       dynamostore.NewContentStore(client, cfg.DynamoDBTable, cfg.IndexName, logger),
			Notifications: dynamostore.NewNotificationStore(client, cfg.DynamoDBTable, logger),
			Sequence:      dynamostore.NewSequence(client, cfg.DynamoDBTable),
			Users:         dynamostore.NewUserStore(client, cfg.DynamoDBTable, cfg.IndexName, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// ProvideNotificationService creates the notification engine
func ProvideNotificationService(stores *Stores, metrics *observability.Metrics, logger *zap.Logger) *services.NotificationService {
	return services.NewNotificationService(stores.Notifications, stores.Sequence, metrics, logger)
}

// ProvideGraphService creates the follow-graph engine
func ProvideGraphService(stores *Stores, notifier *services.NotificationService, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(stores.Graph, stores.Users, notifier, logger)
}

// ProvideFeedService creates the feed engine
func ProvideFeedService(stores *Stores, logger *zap.Logger) *services.FeedService {
	return services.NewFeedService(stores.Graph, stores.Content, logger)
}

// ProvideEngagementService creates the post/like/comment engine
func ProvideEngagementService(
	stores *Stores,
	notifier *services.NotificationService,
	limits *domaincfg.Holder,
	logger *zap.Logger,
) *services.EngagementService {
	return services.NewEngagementService(
		stores.Content,
		stores.Graph,
		stores.Users,
		stores.Sequence,
		notifier,
		limits,
		logger,
	)
}

// ProvideIdentityService creates the account/session engine
func ProvideIdentityService(
	stores *Stores,
	tokens *auth.TokenManager,
	limits *domaincfg.Holder,
	logger *zap.Logger,
) *services.IdentityService {
	return services.NewIdentityService(stores.Users, tokens, limits, logger)
}
