package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
	"tiffin/internal/usecase"

	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print live order and notification updates until interrupted",
		Args:  cobra.NoArgs,
		RunE:  c.authenticated(c.watch),
	}
}

func (c *CLI) watch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	c.dispatcher.Observe(func(_ context.Context, event entity.Event) {
		fmt.Fprintln(out, describeEvent(event))
		if toast, ok := c.toasts.Current(); ok {
			fmt.Fprintf(out, "[%s] %s\n", toast.Type, toast.Message)
		}
	})
	c.dispatcher.Start(ctx)
	c.channel.OnStateChange(func(state service.ChannelState) {
		fmt.Fprintf(out, "live updates: %s\n", state)
	})

	// Collections start from the server snapshot; pushes are applied on top.
	_ = c.orders.Refresh(ctx, usecase.DashboardRole(c.session), "")
	_ = c.notifications.Fetch(ctx)

	fmt.Fprintf(out, "Watching as %s, %d orders, %d unread notifications (live updates: %s)\n",
		usecase.DashboardRole(c.session), len(c.orders.Orders()), c.notifications.UnreadCount(), c.channel.State())

	<-ctx.Done()
	fmt.Fprintln(out, "Stopped")

	return nil
}
