package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"travelbuddy/internal/infra"
)

var Module = fx.Provide(
	infra.LoadConfig,
	ProvideLogger,
)

func ProvideLogger(lc fx.Lifecycle, cfg infra.Config) *zap.Logger {
	logger := infra.NewLogger(cfg)
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger
}
