package components

import (
	"ops-console/internal/handler"
	"ops-console/internal/handler/api"
	"ops-console/internal/handler/middleware"
	"ops-console/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.AuthConfig { return cfg.Auth },
		api.NewAuthHandler,
		api.NewScheduleHandler,
		api.NewExportHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
