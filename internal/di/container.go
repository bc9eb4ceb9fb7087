// Package di provides dependency injection configuration for the Reel Wrapped server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/reelwrapped/reelwrapped-server/internal/config"
	"github.com/reelwrapped/reelwrapped-server/internal/di/providers"
	"github.com/reelwrapped/reelwrapped-server/internal/enrich"
	"github.com/reelwrapped/reelwrapped-server/internal/logger"
	"github.com/reelwrapped/reelwrapped-server/internal/progress"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
	"github.com/reelwrapped/reelwrapped-server/internal/tmdb"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// TMDB layer
	do.Provide(injector, providers.ProvideTMDBCache)
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideEnricher)

	// Analysis services
	do.Provide(injector, providers.ProvideTracker)
	do.Provide(injector, providers.ProvideAnalysisService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*tmdb.Cache](injector)
	_ = do.MustInvoke[*tmdb.Client](injector)
	_ = do.MustInvoke[*enrich.Enricher](injector)
	_ = do.MustInvoke[*progress.Tracker](injector)
	_ = do.MustInvoke[*service.AnalysisService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
