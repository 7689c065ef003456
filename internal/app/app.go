// Package app holds the dependency graph shared by the tiffin binaries.
package app

import (
	"context"

	"tiffin/config"
	"tiffin/internal/infra/api"
	"tiffin/internal/infra/auth"
	"tiffin/internal/infra/persistence"
	"tiffin/internal/infra/realtime"
	"tiffin/internal/usecase"
	"tiffin/internal/usecase/impl"

	"go.uber.org/fx"
)

// Core provides configuration, infrastructure and every usecase. The caller
// supplies the *slog.Logger and the deliveries.
func Core() fx.Option {
	return fx.Options(
		injectInfra(),
		injectService(),
		injectUsecase(),
	)
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		context.Background,
		persistence.NewLocalStore,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			api.NewClient,
			realtime.NewChannel,
			auth.NewJWTInspector,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewToastService,
			impl.NewOrderService,
			impl.NewNotificationService,
			impl.NewSessionService,
			impl.NewCatalogService,
			impl.NewCartService,
			impl.NewRealtimeDispatcher,
			fx.Annotate(
				asSessionScoped[usecase.OrderUsecase],
				fx.ResultTags(`group:"session_scoped"`),
			),
			fx.Annotate(
				asSessionScoped[usecase.NotificationUsecase],
				fx.ResultTags(`group:"session_scoped"`),
			),
		),
	)
}

// asSessionScoped puts a collection into the group cleared on sign-out.
func asSessionScoped[T usecase.SessionScoped](v T) usecase.SessionScoped {
	return v
}
