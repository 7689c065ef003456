// Package cli is the terminal front end. Commands drive the same usecases as
// the gateway, so a session signed in here is the session the gateway serves.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "tiffin/internal/delivery/context"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// CLI builds the tiffinctl command tree.
type CLI struct {
	session       usecase.SessionUsecase
	catalog       usecase.CatalogUsecase
	cart          usecase.CartUsecase
	orders        usecase.OrderUsecase
	notifications usecase.NotificationUsecase
	dispatcher    usecase.RealtimeDispatcher
	channel       service.RealtimeChannel
	toasts        usecase.ToastUsecase
	logger        *slog.Logger
}

// Params holds dependencies for the CLI
type Params struct {
	fx.In

	Session       usecase.SessionUsecase
	Catalog       usecase.CatalogUsecase
	Cart          usecase.CartUsecase
	Orders        usecase.OrderUsecase
	Notifications usecase.NotificationUsecase
	Dispatcher    usecase.RealtimeDispatcher
	Channel       service.RealtimeChannel
	Toasts        usecase.ToastUsecase
	Logger        *slog.Logger
}

// New creates the CLI
func New(params Params) *CLI {
	return &CLI{
		session:       params.Session,
		catalog:       params.Catalog,
		cart:          params.Cart,
		orders:        params.Orders,
		notifications: params.Notifications,
		dispatcher:    params.Dispatcher,
		channel:       params.Channel,
		toasts:        params.Toasts,
		logger:        params.Logger,
	}
}

// RootCmd returns the command tree. Every command restores the stored session first.
func (c *CLI) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "tiffinctl",
		Short:             "Tiffin marketplace client",
		SilenceUsage:      true,
		PersistentPreRunE: c.hydrate,
	}

	root.AddCommand(c.newSessionCmds()...)
	root.AddCommand(c.newCatalogCmds()...)
	root.AddCommand(c.newCartCmd())
	root.AddCommand(c.newOrdersCmd())
	root.AddCommand(c.newNotificationsCmd())
	root.AddCommand(c.newWatchCmd())

	return root
}

func (c *CLI) hydrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = deliverycontext.WithOrigin(ctx, c.logger, deliverycontext.OriginCLI)
	cmd.SetContext(ctx)

	if err := c.session.Hydrate(ctx); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Stored session discarded", slog.Any("error", err))
	}

	return nil
}

// run wraps a command so the toast it raised is printed whether or not it failed.
func (c *CLI) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if toast, ok := c.toasts.Current(); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", toast.Type, toast.Message)
			c.toasts.Dismiss()
		}

		return err
	}
}

// authenticated is the run wrapper for commands that need a session.
func (c *CLI) authenticated(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return c.run(func(cmd *cobra.Command, args []string) error {
		if !c.session.IsAuthenticated() {
			return errors.WithStack(domainerrors.ErrNotAuthenticated)
		}

		return fn(cmd, args)
	})
}
