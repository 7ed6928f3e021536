// Package di provides dependency injection configuration for the ReadNext server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/readnextapp/readnext-server/internal/bot"
	"github.com/readnextapp/readnext-server/internal/config"
	"github.com/readnextapp/readnext-server/internal/di/providers"
	"github.com/readnextapp/readnext-server/internal/logger"
	"github.com/readnextapp/readnext-server/internal/roles"
	"github.com/readnextapp/readnext-server/internal/service"
	"github.com/readnextapp/readnext-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog services
	do.Provide(injector, providers.ProvideRoleGate)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSuggestionService)
	do.Provide(injector, providers.ProvideDispatcher)

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
	_ = do.MustInvoke[*roles.Gate](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.SuggestionService](injector)
	_ = do.MustInvoke[*bot.Dispatcher](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
