// Package di provides dependency injection configuration for the bookclub
// commands.
package di

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/di/providers"
)

// NewContainer creates the DI container. Services are built lazily, so a
// command only pays for what it invokes.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, flags)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverDownloader)

	// Metadata layer
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideCommenter)

	// Rendering
	do.Provide(injector, providers.ProvideSources)
	do.Provide(injector, providers.ProvideLoader)
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvidePreview)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}
