package providers

import (
	"github.com/samber/do/v2"

	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/logger"
)

// ProvideConfig loads and validates server configuration.
func ProvideConfig(do.Injector) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger provides the application logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}
