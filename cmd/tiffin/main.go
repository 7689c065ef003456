package main

import (
	"context"
	"log/slog"
	"os"

	"tiffin/internal/app"
	"tiffin/internal/delivery"
	"tiffin/internal/delivery/api"
	apimiddleware "tiffin/internal/delivery/api/middleware"
	"tiffin/internal/delivery/api/router/handler"
	"tiffin/internal/delivery/worker"
	workerhandler "tiffin/internal/delivery/worker/handler"
	logs "tiffin/internal/infra/log"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(options()).Run()
}

func options() fx.Option {
	return fx.Options(
		app.Core(),
		fx.Provide(logs.New),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewSessionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewCatalogHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewNotificationHandler,
			handler.NewHealthHandler,
			workerhandler.NewSyncHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
