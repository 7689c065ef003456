package cli

import (
	"fmt"

	"tiffin/internal/domain/entity"

	"github.com/spf13/cobra"
)

func (c *CLI) newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "List notifications", Args: cobra.NoArgs, RunE: c.authenticated(c.listNotifications)}
	cmd.Flags().Bool("cached", false, "show the local copy without fetching")

	cmd.AddCommand(
		&cobra.Command{Use: "read <notification-id>", Short: "Mark one notification read", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.markRead)},
		&cobra.Command{Use: "read-all", Short: "Mark every notification read", Args: cobra.NoArgs, RunE: c.authenticated(c.markAllRead)},
		&cobra.Command{Use: "delete <notification-id>", Short: "Delete a notification", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.deleteNotification)},
	)

	return cmd
}

func (c *CLI) listNotifications(cmd *cobra.Command, _ []string) error {
	if cached, _ := cmd.Flags().GetBool("cached"); !cached {
		if err := c.notifications.Fetch(cmd.Context()); err != nil {
			c.toasts.Show("Failed to load notifications", entity.ToastError)

			return err
		}
	}

	return c.renderNotifications(cmd)
}

func (c *CLI) markRead(cmd *cobra.Command, args []string) error {
	if err := c.notifications.MarkRead(cmd.Context(), entity.ID(args[0])); err != nil {
		return err
	}

	return c.renderNotifications(cmd)
}

func (c *CLI) markAllRead(cmd *cobra.Command, _ []string) error {
	if err := c.notifications.MarkAllRead(cmd.Context()); err != nil {
		return err
	}

	return c.renderNotifications(cmd)
}

func (c *CLI) deleteNotification(cmd *cobra.Command, args []string) error {
	if err := c.notifications.Delete(cmd.Context(), entity.ID(args[0])); err != nil {
		return err
	}

	return c.renderNotifications(cmd)
}

func (c *CLI) renderNotifications(cmd *cobra.Command) error {
	items := c.notifications.Notifications()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notifications")

		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", c.notifications.UnreadCount())

	w := newTable(cmd)
	fmt.Fprintln(w, "ID\tREAD\tTYPE\tMESSAGE\tRECEIVED")
	for _, n := range items {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\t%s\n", n.ID, n.Read, n.ToastType(), n.ToastText(), timestamp(n.CreatedAt))
	}

	return w.Flush()
}
