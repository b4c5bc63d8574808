// Package di provides dependency injection configuration for the ScriptRoom server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/di/providers"
	"github.com/scriptroom/scriptroom-server/internal/logger"
	"github.com/scriptroom/scriptroom-server/internal/tts"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Alignment engine and TTS
	do.Provide(injector, providers.ProvideOrchestrator)
	do.Provide(injector, providers.ProvideTTSClient)
	do.Provide(injector, providers.ProvideGenerator)

	// Workers
	do.Provide(injector, providers.ProvideInboxWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*align.Orchestrator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.TTSClientHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*tts.Generator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.InboxWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
