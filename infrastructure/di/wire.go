//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"pulse-backend/application/services"
	domaincfg "pulse-backend/domain/config"
	"pulse-backend/infrastructure/config"
	"pulse-backend/pkg/auth"
	"pulse-backend/pkg/observability"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Limits        *domaincfg.Holder
	TokenManager  *auth.TokenManager
	Stores        *Stores
	Identity      *services.IdentityService
	Graph         *services.GraphService
	Feed          *services.FeedService
	Engagement    *services.EngagementService
	Notifications *services.NotificationService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideLimitsHolder,
	ProvideTokenManager,
	ProvideStores,
	ProvideNotificationService,
	ProvideGraphService,
	ProvideFeedService,
	ProvideEngagementService,
	ProvideIdentityService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
